package main

import (
	"context"
	"errors"
	"sync"

	"imageprep/internal/domain/entities"
	"imageprep/internal/domain/repositories"
	usecases "imageprep/internal/usecase"
)

// ApplicationProcessor запускает пакетную обработку по команде из TUI
type ApplicationProcessor struct {
	batch  *usecases.ProcessImagesUseCase
	logger repositories.Logger

	mu     sync.Mutex
	config *entities.Config

	// Graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewApplicationProcessor создает новый процессор приложения
func NewApplicationProcessor(
	parent context.Context,
	batch *usecases.ProcessImagesUseCase,
	config *entities.Config,
	logger repositories.Logger,
) *ApplicationProcessor {
	ctx, cancel := context.WithCancel(parent)

	return &ApplicationProcessor{
		batch:  batch,
		config: config,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetConfig заменяет конфигурацию следующего запуска
func (p *ApplicationProcessor) SetConfig(config *entities.Config) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.config = config
}

// StartProcessing выполняет один пакетный запуск
func (p *ApplicationProcessor) StartProcessing() {
	p.wg.Add(1)
	defer p.wg.Done()

	p.mu.Lock()
	config := p.config
	p.mu.Unlock()

	summary, err := p.batch.Execute(p.ctx, config)
	switch {
	case err == nil:
		p.logger.Success("Обработка завершена: создано версий %d", summary.Derivatives)
	case errors.Is(err, entities.ErrRunHadFailures):
		p.logger.Warning("Обработка завершена с ошибками: %v", err)
	default:
		p.logger.Error("Ошибка обработки: %v", err)
	}
}

// Shutdown корректно завершает работу процессора
func (p *ApplicationProcessor) Shutdown() {
	p.cancel()
	p.wg.Wait()
}
