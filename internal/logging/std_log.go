// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package logging

import (
	"log/slog"
	"strings"
)

// slogWriter receives output of the standard log package and re-levels it by prefix.
type slogWriter struct{}

func (w *slogWriter) Write(p []byte) (n int, err error) {
	msg := strings.TrimRight(string(p), "\n")

	switch {
	case strings.HasPrefix(msg, "ERROR "), strings.HasPrefix(msg, "ERROR:"):
		slog.Error(strings.TrimSpace(msg[6:]))
	case strings.HasPrefix(msg, "WARN "), strings.HasPrefix(msg, "WARN:"):
		slog.Warn(strings.TrimSpace(msg[5:]))
	case strings.HasPrefix(msg, "INFO "), strings.HasPrefix(msg, "INFO:"):
		slog.Info(strings.TrimSpace(msg[5:]))
	default:
		slog.Debug(msg)
	}

	return len(p), nil
}
