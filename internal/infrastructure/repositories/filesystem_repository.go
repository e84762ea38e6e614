package repositories

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"imageprep/internal/domain/entities"
)

// FileSystemRepository реализация репозитория для работы с файловой системой
type FileSystemRepository struct{}

// NewFileSystemRepository создает новый репозиторий файловой системы
func NewFileSystemRepository() *FileSystemRepository {
	return &FileSystemRepository{}
}

// GetImageInfo получает информацию об изображении
func (r *FileSystemRepository) GetImageInfo(path string) (entities.SourceImage, error) {
	info, err := os.Stat(path)
	if err != nil {
		return entities.SourceImage{}, err
	}
	return entities.NewSourceImage(path, info.Size()), nil
}

// FileExists проверяет существование файла
func (r *FileSystemRepository) FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// DirectoryExists проверяет существование директории
func (r *FileSystemRepository) DirectoryExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ListImages возвращает изображения в директории и всех подпапках, отсортированные по пути
func (r *FileSystemRepository) ListImages(root string, extensions []string) ([]entities.SourceImage, error) {
	suffixes := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
		if ext != "" {
			suffixes = append(suffixes, "."+ext)
		}
	}

	var images []entities.SourceImage
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Нечитаемые поддеревья пропускаем, обход продолжается
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !hasSuffix(d.Name(), suffixes) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		images = append(images, entities.NewSourceImage(path, info.Size()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(images, func(i, j int) bool {
		return images[i].Path < images[j].Path
	})
	return images, nil
}

// ListCandidates возвращает изображения, для которых нужно строить мобильную версию.
// Исключенные файлы возвращаются вторым списком с причиной пропуска.
func (r *FileSystemRepository) ListCandidates(root string, config entities.ResizeConfig) ([]entities.SourceImage, []entities.ProcessResult, error) {
	images, err := r.ListImages(root, config.NormalizedExtensions())
	if err != nil {
		return nil, nil, err
	}

	var candidates []entities.SourceImage
	var excluded []entities.ProcessResult
	for _, img := range images {
		switch {
		case img.IsDerivative(config.Suffix):
			excluded = append(excluded, entities.Skipped(img, entities.SkipAlreadyDerivative))
		case r.FileExists(img.MobilePath(config.Suffix)):
			excluded = append(excluded, entities.Skipped(img, entities.SkipDerivativeExists))
		default:
			candidates = append(candidates, img)
		}
	}
	return candidates, excluded, nil
}

// CountImages возвращает общее количество изображений без исключений
func (r *FileSystemRepository) CountImages(root string, extensions []string) (int, error) {
	images, err := r.ListImages(root, extensions)
	if err != nil {
		return 0, err
	}
	return len(images), nil
}

func hasSuffix(name string, suffixes []string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range suffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
