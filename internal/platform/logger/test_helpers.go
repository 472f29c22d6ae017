package logger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// Capture collects JSON log lines written during a test. Safe for
// concurrent writers.
type Capture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (c *Capture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

func (c *Capture) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

// Entries decodes every captured line into a map.
func (c *Capture) Entries() ([]map[string]any, error) {
	var entries []map[string]any
	sc := bufio.NewScanner(strings.NewReader(c.String()))
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		entry := map[string]any{}
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, sc.Err()
}

// GetTestLogger returns a debug-level JSON logger and the Capture it writes to.
func GetTestLogger(t *testing.T) (*slog.Logger, *Capture) {
	t.Helper()
	c := &Capture{}
	return slog.New(slog.NewJSONHandler(c, &slog.HandlerOptions{Level: slog.LevelDebug})), c
}

func AssertLogContains(t *testing.T, c *Capture, content string) {
	t.Helper()
	if logs := c.String(); !strings.Contains(logs, content) {
		t.Errorf("log output missing %q:\n%s", content, logs)
	}
}

func AssertLogNotContains(t *testing.T, c *Capture, content string) {
	t.Helper()
	if logs := c.String(); strings.Contains(logs, content) {
		t.Errorf("log output unexpectedly contains %q:\n%s", content, logs)
	}
}
