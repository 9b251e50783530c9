// SPDX-License-Identifier: MPL-2.0

package rpm

// Logger is the subset of *log.Logger used by this package.
type Logger interface {
	Debug(msg any, keyvals ...any)
	Info(msg any, keyvals ...any)
	Warn(msg any, keyvals ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(any, ...any) {}
func (nopLogger) Info(any, ...any)  {}
func (nopLogger) Warn(any, ...any)  {}

func orNop(l Logger) Logger {
	if l == nil {
		return nopLogger{}
	}
	return l
}
