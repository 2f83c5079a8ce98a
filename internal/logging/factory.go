package logging

import (
	"fmt"

	"jobboard/internal/logging/adapters"
	"jobboard/internal/logging/types"
)

// AdapterFactory builds adapters from their config entries
type AdapterFactory struct{}

func NewAdapterFactory() *AdapterFactory {
	return &AdapterFactory{}
}

// CreateAdapter creates the adapter named by adapterConfig.Type
func (f *AdapterFactory) CreateAdapter(adapterConfig types.AdapterConfig) (types.LogAdapter, error) {
	opts := adapterConfig.Options

	switch adapterConfig.Type {
	case "stdout":
		return adapters.NewStdoutAdapter(adapterConfig.Name, adapters.StdoutConfig{
			Format:    stringOption(opts, "format", "json"),
			Colorized: boolOption(opts, "colorized", false),
		}), nil
	case "file":
		cfg := adapters.FileConfig{
			FilePath:    stringOption(opts, "file_path", ""),
			Format:      stringOption(opts, "format", "json"),
			MaxSize:     int64(intOption(opts, "max_size", 0)),
			MaxBackups:  intOption(opts, "max_backups", 10),
			CreateDirs:  boolOption(opts, "create_dirs", true),
			SyncOnWrite: boolOption(opts, "sync_on_write", false),
		}
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("file_path is required for file adapter")
		}
		return adapters.NewFileAdapter(adapterConfig.Name, cfg)
	case "memory":
		return adapters.NewMemoryAdapter(adapterConfig.Name), nil
	default:
		return nil, fmt.Errorf("unsupported adapter type: %s", adapterConfig.Type)
	}
}

func stringOption(options map[string]interface{}, key, def string) string {
	if s, ok := options[key].(string); ok {
		return s
	}
	return def
}

func intOption(options map[string]interface{}, key string, def int) int {
	switch v := options[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

func boolOption(options map[string]interface{}, key string, def bool) bool {
	if b, ok := options[key].(bool); ok {
		return b
	}
	return def
}
