package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"imageprep/internal/domain/repositories"
)

// DefaultDebounce пауза после последнего события перед запуском пересборки
const DefaultDebounce = 500 * time.Millisecond

// Filter решает, должно ли изменение файла запускать пересборку
type Filter func(path string) bool

// Watcher следит за деревом директорий и собирает изменения в пачки
type Watcher struct {
	fs       *fsnotify.Watcher
	filter   Filter
	logger   repositories.Logger
	debounce time.Duration
	changes  chan []string
}

// NewWatcher создает наблюдатель за файловой системой
func NewWatcher(debounce time.Duration, filter Filter, logger repositories.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("не удалось создать fsnotify watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		fs:       fsWatcher,
		filter:   filter,
		logger:   logger,
		debounce: debounce,
		changes:  make(chan []string, 1),
	}, nil
}

// AddRecursive добавляет директорию и все вложенные директории
func (w *Watcher) AddRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("не удалось следить за %s: %w", path, err)
		}
		if w.logger != nil {
			w.logger.Debug("👀 Отслеживается директория: %s", path)
		}
		return nil
	})
}

// Changes возвращает канал пачек изменившихся файлов
func (w *Watcher) Changes() <-chan []string {
	return w.changes
}

// Run обрабатывает события до отмены контекста, затем закрывает канал изменений
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.changes)

	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}

			// Новые директории сразу берем под наблюдение
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.AddRecursive(event.Name); err != nil && w.logger != nil {
						w.logger.Warning("⚠️ %v", err)
					}
					continue
				}
			}

			if w.filter != nil && !w.filter(event.Name) {
				continue
			}
			pending[event.Name] = struct{}{}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			batch := make([]string, 0, len(pending))
			for path := range pending {
				batch = append(batch, path)
			}
			sort.Strings(batch)
			pending = make(map[string]struct{})

			select {
			case w.changes <- batch:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warning("⚠️ Ошибка наблюдателя: %v", err)
			}
		}
	}
}

// Close останавливает наблюдение
func (w *Watcher) Close() error {
	return w.fs.Close()
}
