// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize bounds the size of a decoded document (1MB).
const DefaultMaxFileSize int64 = 1 << 20

type (
	parseOptions struct {
		maxFileSize int64
		filename    string
	}

	// Option configures ParseAndDecode.
	Option func(*parseOptions)
)

func defaultOptions() parseOptions {
	return parseOptions{maxFileSize: DefaultMaxFileSize, filename: "<input>"}
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(size int64) Option {
	return func(o *parseOptions) { o.maxFileSize = size }
}

// WithFilename names the document in error messages.
func WithFilename(name string) Option {
	return func(o *parseOptions) {
		if name != "" {
			o.filename = name
		}
	}
}
