package types

import (
	"strings"
	"time"
)

// LogLevel is the severity of an entry
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

var levelNames = [...]string{"debug", "info", "warn", "error", "fatal"}

func (l LogLevel) String() string {
	if l < DebugLevel || l > FatalLevel {
		return "info"
	}
	return levelNames[l]
}

func (l LogLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ParseLevel maps a config string onto a level, defaulting to info
func ParseLevel(s string) LogLevel {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return WarnLevel
	}
	for i, name := range levelNames {
		if name == s {
			return LogLevel(i)
		}
	}
	return InfoLevel
}

// Field keys lifted out of the field map into their own entry columns
const (
	FieldRequestID = "request_id"
	FieldUserID    = "user_id"
	FieldComponent = "component"
)

// LogEntry is a single structured record handed to every adapter.
// RequestID, UserID and Component correlate a line with an HTTP or gRPC
// request, the signed-in account and the service that wrote it.
type LogEntry struct {
	Level     LogLevel               `json:"level"`
	Message   string                 `json:"message"`
	Timestamp time.Time              `json:"time"`
	RequestID string                 `json:"request_id,omitempty"`
	UserID    string                 `json:"user_id,omitempty"`
	Component string                 `json:"component,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// NewEntry builds an entry, moving the correlation keys out of fields.
// fields is owned by the entry afterwards.
func NewEntry(level LogLevel, message string, fields map[string]interface{}) *LogEntry {
	entry := &LogEntry{
		Level:     level,
		Message:   message,
		Timestamp: time.Now().UTC(),
		Fields:    fields,
	}
	entry.RequestID = takeString(fields, FieldRequestID)
	entry.UserID = takeString(fields, FieldUserID)
	entry.Component = takeString(fields, FieldComponent)
	return entry
}

// takeString removes key from fields when it holds a string
func takeString(fields map[string]interface{}, key string) string {
	v, ok := fields[key].(string)
	if !ok {
		return ""
	}
	delete(fields, key)
	return v
}

// LogAdapter is an output destination for log entries
type LogAdapter interface {
	Write(entry *LogEntry) error
	Close() error
	Health() error
	Name() string
}

// Logger is the logging interface used throughout the application
type Logger interface {
	Debug(message string, fields ...map[string]interface{})
	Info(message string, fields ...map[string]interface{})
	Warn(message string, fields ...map[string]interface{})
	Error(message string, fields ...map[string]interface{})
	Fatal(message string, fields ...map[string]interface{})

	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger

	Log(level LogLevel, message string, fields ...map[string]interface{})

	SetLevel(level LogLevel)
	GetLevel() LogLevel

	AddAdapter(adapter LogAdapter) error
	RemoveAdapter(adapterName string) error

	Close() error
}

// AdapterConfig configures one adapter instance
type AdapterConfig struct {
	Name    string                 `yaml:"name"`
	Type    string                 `yaml:"type"`
	Enabled bool                   `yaml:"enabled"`
	Options map[string]interface{} `yaml:"options"`
}
