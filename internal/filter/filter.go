// Package filter implements the Scanner's path filtering rules: a Filter
// combines optional predicates on filename/directory/extension/regex, and
// a Set combines several Filters under an And/Or policy. Grounded on the
// original Rust source's engine/scanner/filters.rs — translated to Go's
// regexp package, with case-insensitivity realized via an "(?i)" prefix
// rather than a separate case-folding pass.
package filter

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

type condition struct {
	substring     string
	caseSensitive bool
}

func newCondition(substring string, caseSensitive bool) condition {
	return condition{substring: substring, caseSensitive: caseSensitive}
}

func (c condition) matches(target string) bool {
	if c.caseSensitive {
		return strings.Contains(target, c.substring)
	}
	return strings.Contains(strings.ToLower(target), strings.ToLower(c.substring))
}

// Filter combines zero or more predicates over a candidate path. Every
// configured predicate must hold for Check to return true; an unconfigured
// predicate is simply skipped.
type Filter struct {
	caseSensitive bool

	filenameContains    *condition
	filenameNotContains *condition
	dirContains         *condition
	dirNotContains      *condition
	extensionIs         string
	extensionIsNot      string
	filenameRegex       *regexp.Regexp
}

// New returns a Filter with no predicates configured (passes everything)
// and case-sensitive matching, matching the Rust original's Filter::new.
func New() *Filter {
	return &Filter{caseSensitive: true}
}

// SetCaseSensitive must be called before the Set* predicate setters that
// build a condition, since each condition captures the flag at set time.
func (f *Filter) SetCaseSensitive(caseSensitive bool) *Filter {
	f.caseSensitive = caseSensitive
	return f
}

func (f *Filter) SetFilenameContains(substring string) *Filter {
	c := newCondition(substring, f.caseSensitive)
	f.filenameContains = &c
	return f
}

func (f *Filter) SetFilenameNotContains(substring string) *Filter {
	c := newCondition(substring, f.caseSensitive)
	f.filenameNotContains = &c
	return f
}

func (f *Filter) SetDirContains(substring string) *Filter {
	c := newCondition(substring, f.caseSensitive)
	f.dirContains = &c
	return f
}

func (f *Filter) SetDirNotContains(substring string) *Filter {
	c := newCondition(substring, f.caseSensitive)
	f.dirNotContains = &c
	return f
}

func (f *Filter) SetExtensionIs(ext string) *Filter {
	f.extensionIs = ext
	return f
}

func (f *Filter) SetExtensionIsNot(ext string) *Filter {
	f.extensionIsNot = ext
	return f
}

// SetFilenameRegex compiles pattern, folding in case-insensitivity per the
// filter's current CaseSensitive flag. Returns an error for an invalid
// pattern instead of panicking, since filters are usually built from
// user-supplied configuration.
func (f *Filter) SetFilenameRegex(pattern string) error {
	p := pattern
	if !f.caseSensitive {
		p = "(?i)" + pattern
	}
	re, err := regexp.Compile(p)
	if err != nil {
		return fmt.Errorf("compile filename regex %q: %w", pattern, err)
	}
	f.filenameRegex = re
	return nil
}

// Check reports whether candidate (a filesystem path, absolute or
// relative) satisfies every configured predicate.
func (f *Filter) Check(candidate string) bool {
	filename := path.Base(candidate)
	dir := path.Dir(candidate)
	matches := true

	if f.filenameContains != nil {
		matches = matches && f.filenameContains.matches(filename)
	}
	if f.filenameNotContains != nil {
		matches = matches && !f.filenameNotContains.matches(filename)
	}
	if f.dirContains != nil {
		matches = matches && f.dirContains.matches(dir)
	}
	if f.dirNotContains != nil {
		matches = matches && !f.dirNotContains.matches(dir)
	}
	if f.extensionIs != "" {
		ext := strings.TrimPrefix(path.Ext(filename), ".")
		if f.caseSensitive {
			matches = matches && ext == f.extensionIs
		} else {
			matches = matches && strings.EqualFold(ext, f.extensionIs)
		}
	}
	if f.extensionIsNot != "" {
		ext := strings.TrimPrefix(path.Ext(filename), ".")
		if f.caseSensitive {
			matches = matches && ext != f.extensionIsNot
		} else {
			matches = matches && !strings.EqualFold(ext, f.extensionIsNot)
		}
	}
	if f.filenameRegex != nil {
		matches = matches && f.filenameRegex.MatchString(filename)
	}

	return matches
}

// Mode combines multiple Filters in a Set.
type Mode int

const (
	ModeAnd Mode = iota
	ModeOr
)

// Set is an ordered list of Filters combined under Mode. An empty Set
// passes every candidate.
type Set struct {
	Filters []*Filter
	Mode    Mode
}

// ParseMode maps a configuration string ("And"/"Or", case-insensitive) to a
// Mode, defaulting to ModeAnd for anything else.
func ParseMode(s string) Mode {
	if strings.EqualFold(s, "Or") {
		return ModeOr
	}
	return ModeAnd
}

// NewSet returns a Set combining filters under mode. With no filters the
// Set passes everything.
func NewSet(mode Mode, filters ...*Filter) *Set {
	return &Set{Filters: filters, Mode: mode}
}

// Check applies the combination policy: And requires every filter to pass,
// Or requires at least one. An empty filter list always passes.
func (s *Set) Check(candidate string) bool {
	if s == nil || len(s.Filters) == 0 {
		return true
	}
	switch s.Mode {
	case ModeOr:
		for _, f := range s.Filters {
			if f.Check(candidate) {
				return true
			}
		}
		return false
	default:
		for _, f := range s.Filters {
			if !f.Check(candidate) {
				return false
			}
		}
		return true
	}
}
