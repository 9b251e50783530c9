// SPDX-License-Identifier: MPL-2.0

package staging

import (
	"fmt"
	"regexp"
)

// Exclusions is an ordered set of regular expressions matched against a single path
// component. A pattern must match the whole name: "tmp" excludes "tmp" but not "tmpfile".
// The zero value and nil exclude nothing.
type Exclusions struct {
	patterns []*regexp.Regexp
}

// NewExclusions compiles the given patterns.
func NewExclusions(patterns ...string) (*Exclusions, error) {
	e := &Exclusions{patterns: make([]*regexp.Regexp, 0, len(patterns))}
	for _, p := range patterns {
		re, err := regexp.Compile(`^(?:` + p + `)$`)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidExclusion, p, err)
		}
		e.patterns = append(e.patterns, re)
	}
	return e, nil
}

// MustExclusions is like NewExclusions but panics on an invalid pattern.
// It is intended for package-level defaults.
func MustExclusions(patterns ...string) *Exclusions {
	e, err := NewExclusions(patterns...)
	if err != nil {
		panic(err)
	}
	return e
}

// Excludes reports whether name matches any pattern.
func (e *Exclusions) Excludes(name string) bool {
	if e == nil {
		return false
	}
	for _, re := range e.patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// Len returns the number of patterns.
func (e *Exclusions) Len() int {
	if e == nil {
		return 0
	}
	return len(e.patterns)
}
