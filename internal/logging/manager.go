package logging

import (
	"fmt"
	"sort"
	"sync"
)

// Component — подсистема, пишущая в собственный файл лога
type Component string

const (
	ComponentWorld   Component = "world"
	ComponentView    Component = "view"
	ComponentSession Component = "session"
	ComponentMetrics Component = "metrics"
)

// LoggerManager хранит по одному логгеру на компонент
type LoggerManager struct {
	mu      sync.RWMutex
	loggers map[Component]*Logger
}

var (
	globalManager *LoggerManager
	managerOnce   sync.Once
)

// GetLoggerManager возвращает глобальный менеджер логгеров
func GetLoggerManager() *LoggerManager {
	managerOnce.Do(func() {
		globalManager = &LoggerManager{
			loggers: make(map[Component]*Logger),
		}
	})
	return globalManager
}

// GetLogger возвращает логгер компонента, создавая его при первом обращении
func (lm *LoggerManager) GetLogger(c Component) (*Logger, error) {
	lm.mu.RLock()
	logger, exists := lm.loggers[c]
	lm.mu.RUnlock()
	if exists {
		return logger, nil
	}

	lm.mu.Lock()
	defer lm.mu.Unlock()

	if logger, exists := lm.loggers[c]; exists {
		return logger, nil
	}

	logger, err := NewLogger(string(c))
	if err != nil {
		return nil, fmt.Errorf("логгер компонента %s: %w", c, err)
	}

	lm.loggers[c] = logger
	return logger, nil
}

// MustGetLogger возвращает логгер компонента. Если файл лога не открылся,
// возвращается логгер только в консоль; такой логгер не кэшируется.
func (lm *LoggerManager) MustGetLogger(c Component) *Logger {
	logger, err := lm.GetLogger(c)
	if err != nil {
		opts := currentOptions()
		opts.Dir = ""
		fallback, _ := NewLoggerWithOptions(string(c), opts)
		return fallback
	}
	return logger
}

// ApplyLevels переводит все созданные логгеры на новые уровни.
// Нужен, когда логгеры компонентов появились раньше, чем прочитана конфигурация.
func (lm *LoggerManager) ApplyLevels(console, file LogLevel) {
	lm.mu.RLock()
	defer lm.mu.RUnlock()

	for _, logger := range lm.loggers {
		logger.SetLevels(console, file)
	}
}

// SetLogLevel меняет уровни одного компонента
func (lm *LoggerManager) SetLogLevel(c Component, console, file LogLevel) error {
	lm.mu.RLock()
	logger, exists := lm.loggers[c]
	lm.mu.RUnlock()

	if !exists {
		return fmt.Errorf("логгер компонента %s не создан", c)
	}

	logger.SetLevels(console, file)
	return nil
}

// CloseAll закрывает файлы всех логгеров и забывает их
func (lm *LoggerManager) CloseAll() error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	var lastErr error
	for c, logger := range lm.loggers {
		if err := logger.Close(); err != nil {
			lastErr = fmt.Errorf("закрытие логгера %s: %w", c, err)
		}
	}

	lm.loggers = make(map[Component]*Logger)
	return lastErr
}

// ListComponents возвращает созданные компоненты по алфавиту
func (lm *LoggerManager) ListComponents() []Component {
	lm.mu.RLock()
	defer lm.mu.RUnlock()

	out := make([]Component, 0, len(lm.loggers))
	for c := range lm.loggers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func GetWorldLogger() *Logger   { return GetLoggerManager().MustGetLogger(ComponentWorld) }
func GetViewLogger() *Logger    { return GetLoggerManager().MustGetLogger(ComponentView) }
func GetSessionLogger() *Logger { return GetLoggerManager().MustGetLogger(ComponentSession) }
func GetMetricsLogger() *Logger { return GetLoggerManager().MustGetLogger(ComponentMetrics) }
