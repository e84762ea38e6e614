package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"imageprep/internal/domain/repositories"
)

// ConsoleLogger пишет строки лога в поток вывода без временных меток
type ConsoleLogger struct {
	logger   *log.Logger
	logLevel string
}

// NewConsoleLogger создает консольный логгер. При out == nil используется stdout.
func NewConsoleLogger(out io.Writer, logLevel string) *ConsoleLogger {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleLogger{
		logger:   log.New(out, "", 0),
		logLevel: strings.ToLower(logLevel),
	}
}

func (l *ConsoleLogger) Debug(format string, args ...interface{}) {
	if shouldLog(l.logLevel, "debug") {
		l.write("DEBUG", format, args...)
	}
}

func (l *ConsoleLogger) Info(format string, args ...interface{}) {
	if shouldLog(l.logLevel, "info") {
		l.write("INFO", format, args...)
	}
}

func (l *ConsoleLogger) Warning(format string, args ...interface{}) {
	if shouldLog(l.logLevel, "warning") {
		l.write("WARNING", format, args...)
	}
}

func (l *ConsoleLogger) Error(format string, args ...interface{}) {
	if shouldLog(l.logLevel, "error") {
		l.write("ERROR", format, args...)
	}
}

func (l *ConsoleLogger) Success(format string, args ...interface{}) {
	if shouldLog(l.logLevel, "info") {
		l.write("SUCCESS", format, args...)
	}
}

// Close ничего не закрывает: поток принадлежит вызывающему
func (l *ConsoleLogger) Close() error { return nil }

func (l *ConsoleLogger) write(level, format string, args ...interface{}) {
	l.logger.Printf("[%s] %s", level, fmt.Sprintf(format, args...))
}

// TeeLogger рассылает сообщения нескольким логгерам
type TeeLogger struct {
	loggers []repositories.Logger
}

// NewTeeLogger создает логгер-разветвитель. Пустые логгеры отбрасываются.
func NewTeeLogger(loggers ...repositories.Logger) *TeeLogger {
	tee := &TeeLogger{}
	for _, logger := range loggers {
		if isNilLogger(logger) {
			continue
		}
		tee.loggers = append(tee.loggers, logger)
	}
	return tee
}

func (t *TeeLogger) Debug(format string, args ...interface{}) {
	for _, l := range t.loggers {
		l.Debug(format, args...)
	}
}

func (t *TeeLogger) Info(format string, args ...interface{}) {
	for _, l := range t.loggers {
		l.Info(format, args...)
	}
}

func (t *TeeLogger) Warning(format string, args ...interface{}) {
	for _, l := range t.loggers {
		l.Warning(format, args...)
	}
}

func (t *TeeLogger) Error(format string, args ...interface{}) {
	for _, l := range t.loggers {
		l.Error(format, args...)
	}
}

func (t *TeeLogger) Success(format string, args ...interface{}) {
	for _, l := range t.loggers {
		l.Success(format, args...)
	}
}

// Close закрывает все логгеры и возвращает первую ошибку
func (t *TeeLogger) Close() error {
	var first error
	for _, l := range t.loggers {
		if err := l.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// isNilLogger ловит и nil-интерфейс, и типизированный nil от NewFileLogger
func isNilLogger(logger repositories.Logger) bool {
	if logger == nil {
		return true
	}
	if fl, ok := logger.(*FileLogger); ok && fl == nil {
		return true
	}
	return false
}
