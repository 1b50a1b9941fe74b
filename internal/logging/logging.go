package logging

import (
	"encoding/base64"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync/atomic"
	"unicode/utf8"
)

// maxPayloadPreview bounds how much of a payload is echoed into debug logs.
// Icon payloads are routinely several kilobytes of base64.
const maxPayloadPreview = 256

var debugEnabled atomic.Bool

// EnableDebug turns on verbose debug logging for the application lifecycle.
func EnableDebug() {
	debugEnabled.Store(true)
	log.Printf("[DEBUG] debug logging enabled")
}

// DebugEnabled reports whether debug logging is active.
func DebugEnabled() bool {
	return debugEnabled.Load()
}

// Debugf emits a formatted debug log message when debugging is enabled.
func Debugf(format string, args ...interface{}) {
	if !DebugEnabled() {
		return
	}
	log.Printf("[DEBUG] "+format, args...)
}

// LogRequest emits details about an inbound IPC request when debugging is
// enabled. Fields whose name looks sensitive are masked.
func LogRequest(id, command string, fields map[string]string) {
	if !DebugEnabled() {
		return
	}
	if id == "" {
		id = "<none>"
	}
	log.Printf("[DEBUG] IPC request %s %s", id, command)
	if len(fields) > 0 {
		log.Printf("[DEBUG] --> request fields: %s", formatFields(fields))
	}
}

// LogResponse emits details about an outbound IPC response when debugging is
// enabled.
func LogResponse(id string, errMsg string, body []byte) {
	if !DebugEnabled() {
		return
	}
	if id == "" {
		id = "<none>"
	}
	if errMsg != "" {
		log.Printf("[DEBUG] IPC response %s failed: %s", id, errMsg)
		return
	}
	log.Printf("[DEBUG] IPC response %s ok", id)
	if len(body) > 0 {
		log.Printf("[DEBUG] <-- response payload %s", describePayload(body))
	}
}

func formatFields(fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})

	var b strings.Builder
	for idx, name := range names {
		if idx > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		b.WriteString("=")
		b.WriteString(sanitizeSensitiveValue(name, fields[name]))
	}
	return b.String()
}

func describePayload(body []byte) string {
	if utf8.Valid(body) {
		return fmt.Sprintf("(utf-8, %d bytes): %s", len(body), truncate(string(body)))
	}

	encoded := base64.StdEncoding.EncodeToString(body)
	return fmt.Sprintf("(base64, %d bytes): %s", len(body), truncate(encoded))
}

func truncate(value string) string {
	if len(value) <= maxPayloadPreview {
		return value
	}
	return value[:maxPayloadPreview] + "..."
}

func isSensitiveKey(name string) bool {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "secret"),
		strings.Contains(lower, "token"),
		strings.Contains(lower, "password"):
		return true
	default:
		return false
	}
}

func sanitizeSensitiveValue(name, value string) string {
	if value == "" {
		return value
	}
	if isSensitiveKey(name) {
		return MaskIdentifier(value)
	}
	return value
}

// MaskIdentifier obscures sensitive identifiers leaving only the last four characters visible.
func MaskIdentifier(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(trimmed)-4) + trimmed[len(trimmed)-4:]
}
