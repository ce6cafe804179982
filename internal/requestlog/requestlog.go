package requestlog

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Entry is one logged plan request.
type Entry struct {
	Timestamp string      `json:"timestamp"`
	Input     interface{} `json:"input"`
}

// Logger appends plan requests to a local JSONL file. Writes are
// mutex-guarded so concurrent requests never interleave lines.
type Logger struct {
	mu   sync.Mutex
	path string
}

// New creates a request logger writing to path.
func New(path string) *Logger {
	return &Logger{path: path}
}

// Append writes a {timestamp, input} line. Best-effort by contract: the
// caller logs the returned error and moves on.
func (l *Logger) Append(input interface{}) error {
	entry := Entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Input:     input,
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal log entry: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open request log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write request log: %w", err)
	}
	return nil
}
