// Package logging writes one JSON object per line, the format every component of the service logs in.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Logger serializes entries to w. It is safe for concurrent use.
type Logger struct {
	mu  sync.Mutex
	enc *json.Encoder
	loc *time.Location
}

// New creates a Logger writing to w with timestamps rendered in loc.
func New(w io.Writer, loc *time.Location) *Logger {
	if loc == nil {
		loc = time.UTC
	}
	return &Logger{enc: json.NewEncoder(w), loc: loc}
}

// Stdout is a Logger writing to standard output in local time.
func Stdout() *Logger {
	return New(os.Stdout, time.Local)
}

// Log writes data, adding "ts" and a default "level" derived from "status".
func (l *Logger) Log(data map[string]any) {
	if l == nil {
		return
	}
	data["ts"] = time.Now().In(l.loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.enc.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode log entry: %v\n", err)
	}
}

// Info logs msg with optional fields.
func (l *Logger) Info(msg string, fields map[string]any) {
	l.Log(merge("info", msg, fields))
}

// Warn logs msg with optional fields.
func (l *Logger) Warn(msg string, fields map[string]any) {
	l.Log(merge("warn", msg, fields))
}

// Error logs msg and err with optional fields.
func (l *Logger) Error(msg string, err error, fields map[string]any) {
	entry := merge("error", msg, fields)
	if err != nil {
		entry["error"] = err.Error()
	}
	l.Log(entry)
}

func merge(level, msg string, fields map[string]any) map[string]any {
	entry := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		entry[k] = v
	}
	entry["level"] = level
	entry["msg"] = msg
	return entry
}
