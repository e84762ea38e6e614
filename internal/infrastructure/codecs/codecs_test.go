package codecs_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imageprep/internal/domain/entities"
	"imageprep/internal/domain/repositories"
	"imageprep/internal/infrastructure/codecs"
)

// gradient строит тестовое изображение с заданной прозрачностью
func gradient(width, height int, alpha uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / width),
				G: uint8(y * 255 / height),
				B: 128,
				A: alpha,
			})
		}
	}
	return img
}

type stubEncoder struct {
	available bool
	outcome   repositories.EncodeOutcome
	err       error
	panicWith interface{}
	payload   []byte
}

func (s *stubEncoder) Format() string  { return "webp" }
func (s *stubEncoder) Available() bool { return s.available }
func (s *stubEncoder) Encode(w io.Writer, img image.Image, quality float64) (repositories.EncodeOutcome, error) {
	if s.panicWith != nil {
		panic(s.panicWith)
	}
	if s.payload != nil {
		if _, err := w.Write(s.payload); err != nil {
			return repositories.EncodeFailed, err
		}
	}
	return s.outcome, s.err
}

func TestFormats(t *testing.T) {
	exts := []string{"jpg", "jpeg", "png", "webp"}

	assert.True(t, codecs.IsImageFile("a/B.JPG", exts))
	assert.True(t, codecs.IsImageFile("photo.webp", exts))
	assert.False(t, codecs.IsImageFile("notes.md", exts))
	assert.False(t, codecs.IsImageFile("anim.gif", exts))

	assert.Equal(t, codecs.FormatJPEG, codecs.GetImageFormat("x.jpeg"))
	assert.Equal(t, codecs.FormatTIFF, codecs.GetImageFormat("x.tif"))
	assert.Equal(t, "", codecs.GetImageFormat("x.svg"))

	assert.True(t, codecs.SupportsAlpha(codecs.FormatPNG))
	assert.True(t, codecs.SupportsAlpha(codecs.FormatWebP))
	assert.False(t, codecs.SupportsAlpha(codecs.FormatJPEG))
}

func TestRenderers_DimensionsAndAlpha(t *testing.T) {
	renderers := []repositories.ImageRenderer{codecs.NewResizeRenderer(), codecs.NewImagingRenderer()}
	src := gradient(120, 160, 0x80)

	for _, renderer := range renderers {
		t.Run(renderer.Name(), func(t *testing.T) {
			withAlpha := renderer.Render(src, 60, 80, true)
			require.IsType(t, &image.NRGBA{}, withAlpha)
			assert.Equal(t, image.Rect(0, 0, 60, 80), withAlpha.Bounds())
			assert.False(t, withAlpha.(*image.NRGBA).Opaque(), "alpha channel must survive resampling")

			opaque := renderer.Render(src, 60, 80, false)
			require.IsType(t, &image.RGBA{}, opaque)
			assert.Equal(t, image.Rect(0, 0, 60, 80), opaque.Bounds())
			assert.True(t, opaque.(*image.RGBA).Opaque(), "opaque buffer must not carry transparency")
		})
	}
}

func TestRendererByName(t *testing.T) {
	r, err := codecs.RendererByName("")
	require.NoError(t, err)
	assert.Equal(t, "resize", r.Name())

	r, err = codecs.RendererByName("imaging")
	require.NoError(t, err)
	assert.Equal(t, "imaging", r.Name())

	_, err = codecs.RendererByName("nearest")
	assert.ErrorIs(t, err, entities.ErrUnknownRenderer)
}

func TestDecoder_DecodeFile(t *testing.T) {
	dir := t.TempDir()
	decoder := codecs.NewDecoder()

	pngPath := filepath.Join(dir, "ok.png")
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, gradient(10, 20, 0xff)))
	require.NoError(t, os.WriteFile(pngPath, buf.Bytes(), 0644))

	img, format, err := decoder.DecodeFile(pngPath)
	require.NoError(t, err)
	assert.Equal(t, codecs.FormatPNG, format)
	assert.Equal(t, 10, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())

	corrupt := filepath.Join(dir, "broken.png")
	require.NoError(t, os.WriteFile(corrupt, []byte("definitely not an image"), 0644))
	_, _, err = decoder.DecodeFile(corrupt)
	assert.Error(t, err)

	_, _, err = decoder.DecodeFile(filepath.Join(dir, "missing.jpg"))
	assert.Error(t, err)
}

func TestEncode_StandardFormats(t *testing.T) {
	src := gradient(64, 48, 0xff)

	for _, format := range []string{codecs.FormatJPEG, codecs.FormatPNG, codecs.FormatGIF, codecs.FormatBMP, codecs.FormatTIFF} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, codecs.Encode(&buf, src, format, 0.95))

			decoded, decodedFormat, err := image.Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, format, decodedFormat)
			assert.Equal(t, src.Bounds().Size(), decoded.Bounds().Size())
		})
	}

	err := codecs.Encode(io.Discard, src, "svg", 0.9)
	assert.ErrorIs(t, err, entities.ErrUnsupportedFormat)
}

func TestEncode_JPEGQualityIsApplied(t *testing.T) {
	src := gradient(200, 200, 0xff)

	var high, low bytes.Buffer
	require.NoError(t, codecs.Encode(&high, src, codecs.FormatJPEG, 0.95))
	require.NoError(t, codecs.Encode(&low, src, codecs.FormatJPEG, 0.1))

	assert.Greater(t, high.Len(), low.Len(), "higher quality must produce a larger JPEG")

	_, err := jpeg.Decode(&low)
	assert.NoError(t, err)
}

func TestWriteAtomic_RemovesTempOnError(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.png")

	err := codecs.WriteAtomic(target, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return errors.New("encoder exploded")
	})
	require.Error(t, err)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "no target or temp file may remain after a failed write")
}

func TestFileEncoder_EncodeFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "photo-m.png")

	require.NoError(t, codecs.NewFileEncoder().EncodeFile(target, gradient(30, 30, 0x40), codecs.FormatPNG, 0.95))

	file, err := os.Open(target)
	require.NoError(t, err)
	defer file.Close()

	decoded, err := png.Decode(file)
	require.NoError(t, err)
	_, _, _, a := decoded.At(5, 5).RGBA()
	assert.Less(t, a, uint32(0xffff))
}

func TestEncodeAlternateFile(t *testing.T) {
	src := gradient(16, 16, 0xff)

	t.Run("unavailable codec writes nothing", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "a.webp")

		outcome, err := codecs.EncodeAlternateFile(&stubEncoder{available: false}, target, src, 0.9)
		assert.Equal(t, repositories.CodecUnavailable, outcome)
		assert.ErrorIs(t, err, entities.ErrCodecUnavailable)
		assert.NoFileExists(t, target)
	})

	t.Run("nil codec is unavailable", func(t *testing.T) {
		outcome, err := codecs.EncodeAlternateFile(nil, filepath.Join(t.TempDir(), "a.webp"), src, 0.9)
		assert.Equal(t, repositories.CodecUnavailable, outcome)
		assert.Error(t, err)
	})

	t.Run("panic is captured", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "a.webp")

		outcome, err := codecs.EncodeAlternateFile(&stubEncoder{available: true, panicWith: "libwebp missing"}, target, src, 0.9)
		assert.Equal(t, repositories.EncodeFailed, outcome)
		assert.ErrorContains(t, err, "libwebp missing")
		assert.NoFileExists(t, target)
	})

	t.Run("encode error", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "a.webp")

		outcome, err := codecs.EncodeAlternateFile(&stubEncoder{available: true, outcome: repositories.EncodeFailed, err: errors.New("bad")}, target, src, 0.9)
		assert.Equal(t, repositories.EncodeFailed, outcome)
		assert.Error(t, err)
		assert.NoFileExists(t, target)
	})

	t.Run("success", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "a.webp")

		outcome, err := codecs.EncodeAlternateFile(&stubEncoder{available: true, outcome: repositories.Encoded, payload: []byte("RIFF")}, target, src, 0.9)
		require.NoError(t, err)
		assert.Equal(t, repositories.Encoded, outcome)

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, []byte("RIFF"), data)
	})
}
