package adapters

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"jobboard/internal/logging/types"
)

// formatEntry renders an entry as a single json or text line
func formatEntry(format string, entry *types.LogEntry, colorized bool) (string, error) {
	if strings.EqualFold(format, "text") {
		return formatText(entry, colorized), nil
	}
	return formatJSON(entry)
}

func formatJSON(entry *types.LogEntry) (string, error) {
	record := make(map[string]interface{}, len(entry.Fields)+6)
	for k, v := range entry.Fields {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		record[k] = v
	}
	for k, v := range correlation(entry) {
		record[k] = v
	}
	record["level"] = entry.Level.String()
	record["message"] = entry.Message
	record["time"] = entry.Timestamp.Format(time.RFC3339)

	data, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// correlation returns the non-empty correlation columns of entry
func correlation(entry *types.LogEntry) map[string]string {
	out := make(map[string]string, 3)
	if entry.Component != "" {
		out[types.FieldComponent] = entry.Component
	}
	if entry.RequestID != "" {
		out[types.FieldRequestID] = entry.RequestID
	}
	if entry.UserID != "" {
		out[types.FieldUserID] = entry.UserID
	}
	return out
}

func formatText(entry *types.LogEntry, colorized bool) string {
	level := strings.ToUpper(entry.Level.String())
	if colorized {
		level = colorize(level)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s]", entry.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"), level)
	if entry.Component != "" {
		fmt.Fprintf(&b, " (%s)", entry.Component)
	}
	b.WriteString(" " + entry.Message)
	if entry.RequestID != "" {
		fmt.Fprintf(&b, " request_id=%s", entry.RequestID)
	}
	if entry.UserID != "" {
		fmt.Fprintf(&b, " user_id=%s", entry.UserID)
	}

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Fields[k])
	}
	return b.String()
}

func colorize(level string) string {
	const reset = "\033[0m"
	switch level {
	case "DEBUG":
		return "\033[90m" + level + reset
	case "INFO":
		return "\033[34m" + level + reset
	case "WARN":
		return "\033[33m" + level + reset
	case "ERROR", "FATAL":
		return "\033[31m" + level + reset
	default:
		return level
	}
}
