package tui

import (
	"fmt"

	"imageprep/internal/domain/repositories"
)

// UILogger дублирует сообщения в журнал TUI и во вложенный логгер
type UILogger struct {
	next       repositories.Logger
	tuiManager *Manager
}

// NewUILogger создает UI логгер. next может быть nil, тогда пишется только журнал TUI.
func NewUILogger(next repositories.Logger, tuiManager *Manager) *UILogger {
	return &UILogger{
		next:       next,
		tuiManager: tuiManager,
	}
}

func (l *UILogger) Debug(format string, args ...interface{}) {
	if l.next != nil {
		l.next.Debug(format, args...)
	}
	l.show("debug", format, args...)
}

func (l *UILogger) Info(format string, args ...interface{}) {
	if l.next != nil {
		l.next.Info(format, args...)
	}
	l.show("info", format, args...)
}

func (l *UILogger) Warning(format string, args ...interface{}) {
	if l.next != nil {
		l.next.Warning(format, args...)
	}
	l.show("warning", format, args...)
}

func (l *UILogger) Error(format string, args ...interface{}) {
	if l.next != nil {
		l.next.Error(format, args...)
	}
	l.show("error", format, args...)
}

func (l *UILogger) Success(format string, args ...interface{}) {
	if l.next != nil {
		l.next.Success(format, args...)
	}
	l.show("success", format, args...)
}

// Close закрывает вложенный логгер
func (l *UILogger) Close() error {
	if l.next == nil {
		return nil
	}
	return l.next.Close()
}

// show отправляет строку в журнал TUI. AddLog не блокирует и безопасен из воркеров.
func (l *UILogger) show(level, format string, args ...interface{}) {
	if l.tuiManager != nil {
		l.tuiManager.AddLog(level, fmt.Sprintf(format, args...))
	}
}
