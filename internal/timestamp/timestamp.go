// SPDX-License-Identifier: MPL-2.0

// Package timestamp stamps the current time into a project's build properties.
package timestamp

import (
	"errors"
	"fmt"
	"time"
)

const (
	// Layout renders times as year-abbreviated month-day, 'T', hours minutes seconds
	// and a numeric zone offset, e.g. 2024-Mar-05T142233+0100.
	Layout = "2006-Jan-02T150405-0700"

	// Property is the name of the property the generator sets.
	Property = "timestamp"
)

// ErrNoProject is returned when there is no project to receive the property.
var ErrNoProject = errors.New("project is nil")

type (
	// PropertySink receives build properties.
	PropertySink interface {
		SetProperty(key, value string) error
	}

	// Logger is the subset of *log.Logger used by this package.
	Logger interface {
		Info(msg any, keyvals ...any)
	}

	// Option configures a Generator.
	Option func(*Generator)

	// Generator sets the timestamp property.
	Generator struct {
		now    func() time.Time
		logger Logger
	}
)

// WithClock sets the time source. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// NewGenerator creates a Generator that logs through logger.
func NewGenerator(logger Logger, opts ...Option) *Generator {
	g := &Generator{now: time.Now, logger: logger}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Format renders t in the host's local zone using Layout.
func Format(t time.Time) string {
	return t.Local().Format(Layout)
}

// Apply sets the timestamp property on sink and returns the value it set.
func (g *Generator) Apply(sink PropertySink) (string, error) {
	if sink == nil {
		return "", ErrNoProject
	}

	value := Format(g.now())
	if g.logger != nil {
		g.logger.Info(fmt.Sprintf("setting property [%s] to [%s]", Property, value))
	}
	if err := sink.SetProperty(Property, value); err != nil {
		return "", fmt.Errorf("set property %s: %w", Property, err)
	}
	return value, nil
}
