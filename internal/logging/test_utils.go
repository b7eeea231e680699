// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package logging

import (
	"io"
	"os"
	"strings"
	"sync"
)

// TestLogCapture is a thread-safe log writer for test assertions
type TestLogCapture struct {
	mu      sync.RWMutex
	entries []string
	tee     io.Writer
}

// NewTestLogCapture also echoes every entry to stderr so logs stay visible with -v.
func NewTestLogCapture() *TestLogCapture {
	return &TestLogCapture{tee: os.Stderr}
}

func NewTestLogCaptureQuiet() *TestLogCapture {
	return &TestLogCapture{}
}

func (c *TestLogCapture) Write(p []byte) (n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, string(p))
	if c.tee != nil {
		_, _ = c.tee.Write(p)
	}
	return len(p), nil
}

// ContainsAll reports whether every substring appears in at least one entry.
func (c *TestLogCapture) ContainsAll(substrs ...string) bool {
	for _, substr := range substrs {
		if c.Count(substr) == 0 {
			return false
		}
	}
	return true
}

// Count returns how many entries contain substr.
func (c *TestLogCapture) Count(substr string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, entry := range c.entries {
		if strings.Contains(entry, substr) {
			n++
		}
	}
	return n
}

func (c *TestLogCapture) Entries() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entries := make([]string, len(c.entries))
	copy(entries, c.entries)
	return entries
}

func (c *TestLogCapture) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
}
