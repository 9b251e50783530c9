// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ParseResult holds a decoded document and the unified CUE value it came from.
type ParseResult[T any] struct {
	Value   *T
	Unified cue.Value
}

// ParseAndDecode validates data against the schema definition at schemaPath
// (for example "#Config") and decodes it into T.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if err := schemaValue.Err(); err != nil {
		return nil, fmt.Errorf("internal error: compile schema: %w", err)
	}
	root := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, err)
	}

	userValue := ctx.CompileBytes(data, cue.Filename(o.filename))
	if err := userValue.Err(); err != nil {
		return nil, FormatError(err, o.filename)
	}

	unified := root.Unify(userValue)

	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, FormatError(err, o.filename)
	}

	var out T
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, o.filename)
	}
	return &ParseResult[T]{Value: &out, Unified: unified}, nil
}

// CheckFileSize rejects data larger than maxSize.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", filename, len(data), maxSize)
	}
	return nil
}
