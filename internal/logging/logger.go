// Package logging provides leveled logging and decision tracing for ballotsim.
// It offers two complementary outputs:
//   - A leveled slog.Logger for stderr (round-by-round progress)
//   - A DecisionLogger for JSONL traces of every social vote (decisions.jsonl)
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LevelTrace is a custom slog level below Debug. At this level every voter's
// ranking is dumped before the procedures run.
const LevelTrace = slog.LevelDebug - 4

// DecisionFile is the name of the decision trace written under the trace dir.
const DecisionFile = "decisions.jsonl"

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// DecisionLogger writes one JSON object per line for each decision event.
// Entries carry a "seq" counter instead of a timestamp so that two runs with
// the same seed produce identical traces.
//
// A nil DecisionLogger is safe to use; all methods are no-ops on nil receiver.
type DecisionLogger struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	path   string
	seq    int
}

// NewDecisionLogger opens dir/decisions.jsonl for append.
// At "info" level (the default), returns nil and no file is created.
// Returns nil if the file cannot be opened.
func NewDecisionLogger(dir string, level string) *DecisionLogger {
	if ParseLevel(level) == slog.LevelInfo {
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}

	path := filepath.Join(dir, DecisionFile)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}

	return &DecisionLogger{w: f, closer: f, path: path}
}

// NewDecisionWriter traces decisions to w. The caller owns w.
func NewDecisionWriter(w io.Writer) *DecisionLogger {
	return &DecisionLogger{w: w}
}

// Log writes a decision event as a single JSONL line.
// A "seq" field is added automatically. The caller's map is not mutated.
func (dl *DecisionLogger) Log(event map[string]any) {
	if dl == nil || dl.w == nil {
		return
	}

	dl.mu.Lock()
	defer dl.mu.Unlock()

	entry := make(map[string]any, len(event)+1)
	for k, v := range event {
		entry[k] = v
	}
	entry["seq"] = dl.seq
	dl.seq++

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')
	_, _ = dl.w.Write(data)
}

// Path returns the trace file path, or "" for writer-backed and nil loggers.
func (dl *DecisionLogger) Path() string {
	if dl == nil {
		return ""
	}
	return dl.path
}

// Close closes the trace file if the logger opened one.
func (dl *DecisionLogger) Close() {
	if dl == nil {
		return
	}

	dl.mu.Lock()
	defer dl.mu.Unlock()

	if dl.closer != nil {
		dl.closer.Close()
		dl.closer = nil
	}
	dl.w = nil
}
