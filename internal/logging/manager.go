package logging

import (
	"fmt"
	"sync"

	"jobboard/internal/config"
	"jobboard/internal/logging/adapters"
)

// Manager owns the process logger and its adapters
type Manager struct {
	factory *AdapterFactory
	logger  *MultiLogger
}

func NewManager() *Manager {
	return &Manager{
		factory: NewAdapterFactory(),
		logger:  NewMultiLogger(),
	}
}

// Initialize configures level and adapters; with no adapters listed a single stdout adapter is used
func (m *Manager) Initialize(cfg *config.Config) error {
	m.logger.SetLevel(ParseLogLevel(cfg.Logging.Level))

	if len(cfg.Logging.Adapters) == 0 {
		stdout := adapters.NewStdoutAdapter("stdout", adapters.StdoutConfig{Format: cfg.Logging.Format})
		return m.logger.AddAdapter(stdout)
	}

	for _, ac := range cfg.Logging.Adapters {
		if !ac.Enabled {
			continue
		}

		adapter, err := m.factory.CreateAdapter(AdapterConfig{
			Name:    ac.Name,
			Type:    ac.Type,
			Enabled: ac.Enabled,
			Options: ac.Options,
		})
		if err != nil {
			return fmt.Errorf("failed to create adapter %s: %w", ac.Name, err)
		}
		if err := m.logger.AddAdapter(adapter); err != nil {
			return fmt.Errorf("failed to add adapter %s: %w", ac.Name, err)
		}
	}
	return nil
}

func (m *Manager) GetLogger() Logger {
	return m.logger
}

func (m *Manager) Close() error {
	return m.logger.Close()
}

var (
	globalMu      sync.Mutex
	globalManager *Manager
)

// InitializeLogging initializes the global logger from configuration
func InitializeLogging(cfg *config.Config) error {
	m := NewManager()
	if err := m.Initialize(cfg); err != nil {
		return err
	}

	globalMu.Lock()
	globalManager = m
	globalMu.Unlock()
	return nil
}

// GetGlobalLogger returns the global logger, falling back to json on stdout
func GetGlobalLogger() Logger {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		m := NewManager()
		_ = m.logger.AddAdapter(adapters.NewStdoutAdapter("fallback_stdout", adapters.StdoutConfig{Format: "json"}))
		globalManager = m
	}
	return globalManager.GetLogger()
}

// CloseLogging closes the global logger
func CloseLogging() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager != nil {
		return globalManager.Close()
	}
	return nil
}

// LogWithRequestID returns the global logger tagged with a request id
func LogWithRequestID(requestID string) Logger {
	return GetGlobalLogger().WithField("request_id", requestID)
}

// Discard returns a logger with no adapters
func Discard() Logger {
	return NewMultiLogger()
}

// NewCapture returns a debug-level logger and the memory adapter it writes to
func NewCapture() (Logger, *adapters.MemoryAdapter) {
	l := NewMultiLogger()
	l.SetLevel(DebugLevel)
	mem := adapters.NewMemoryAdapter("capture")
	_ = l.AddAdapter(mem)
	return l, mem
}
