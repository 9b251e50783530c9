// SPDX-License-Identifier: MPL-2.0

package rpm

import (
	"fmt"
	"strings"
	"sync"
)

// recordingLogger captures log lines by level.
type recordingLogger struct {
	mu    sync.Mutex
	lines map[string][]string
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{lines: make(map[string][]string)}
}

func (l *recordingLogger) record(level string, msg any, keyvals ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	line := fmt.Sprint(msg)
	if len(keyvals) > 0 {
		line += " " + strings.TrimSpace(fmt.Sprintln(keyvals...))
	}
	l.lines[level] = append(l.lines[level], line)
}

func (l *recordingLogger) Debug(msg any, keyvals ...any) { l.record("debug", msg, keyvals...) }
func (l *recordingLogger) Info(msg any, keyvals ...any)  { l.record("info", msg, keyvals...) }
func (l *recordingLogger) Warn(msg any, keyvals ...any)  { l.record("warn", msg, keyvals...) }

func (l *recordingLogger) has(level, substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines[level] {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
