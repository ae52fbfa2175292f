// Package errors provides the classified error type used across go-onedoc.
//
// Every failure the tool reports carries a Kind, so the CLI can pick an exit
// code and callers can tell a malformed event stream from a missing file
// without matching on message text:
//
//	err := errors.New(errors.KindMalformedStream, "code block never closed").
//		WithPath(input).
//		WithContext("event", 12).
//		Build()
package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"sort"
	"strings"
)

// Kind classifies an error.
type Kind string

const (
	// KindMalformedStream: an expected End event was never found.
	KindMalformedStream Kind = "malformed_stream"
	// KindHeadingLevelOverflow: shifting a heading would leave the 1-6 range.
	KindHeadingLevelOverflow Kind = "heading_level_overflow"
	// KindUnsupportedFileKind: an input has an extension the tool cannot read.
	KindUnsupportedFileKind Kind = "unsupported_file_kind"
	// KindUnresolvedLink is only ever reported as a warning.
	KindUnresolvedLink Kind = "unresolved_link"
	KindTemplateRender Kind = "template_render"
	KindIO             Kind = "io"
	KindConfig         Kind = "config"
	KindOutOfDate      Kind = "out_of_date"
	KindInternal       Kind = "internal"
)

// Context holds structured key/value details about an error.
type Context map[string]any

// Error is a classified error.
type Error struct {
	kind    Kind
	message string
	path    string
	cause   error
	context Context
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.path != "" {
		b.WriteString(e.path)
		b.WriteString(": ")
	}
	b.WriteString(e.message)
	if len(e.context) > 0 {
		keys := make([]string, 0, len(e.context))
		for k := range e.context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, e.context[k])
		}
		b.WriteString(")")
	}
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Kind() Kind { return e.kind }

// Path returns the file the error is about, if any.
func (e *Error) Path() string { return e.path }

func (e *Error) Context() Context { return e.context }

// Is matches another *Error with the same kind and message.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.kind == other.kind && e.message == other.message
}

// Builder assembles an Error.
type Builder struct {
	err Error
}

// New starts an error of the given kind.
func New(kind Kind, message string) *Builder {
	return &Builder{err: Error{kind: kind, message: message}}
}

// Newf starts an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Builder {
	return New(kind, fmt.Sprintf(format, args...))
}

// Wrap starts an error of the given kind caused by err.
func Wrap(err error, kind Kind, message string) *Builder {
	b := New(kind, message)
	b.err.cause = err
	return b
}

func (b *Builder) WithPath(path string) *Builder {
	b.err.path = path
	return b
}

func (b *Builder) WithContext(key string, value any) *Builder {
	if b.err.context == nil {
		b.err.context = make(Context)
	}
	b.err.context[key] = value
	return b
}

// Build returns the assembled error.
func (b *Builder) Build() *Error {
	e := b.err
	if b.err.context != nil {
		e.context = maps.Clone(b.err.context)
	}
	return &e
}

// As finds the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of the first classified error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.kind
	}
	return KindInternal
}

// IsKind reports whether any classified error in err's chain has kind k,
// including errors combined with errors.Join.
func IsKind(err error, k Kind) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(*Error); ok && e.kind == k {
		return true
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range u.Unwrap() {
			if IsKind(inner, k) {
				return true
			}
		}
		return false
	case interface{ Unwrap() error }:
		return IsKind(u.Unwrap(), k)
	}
	return false
}

// PathOf returns the path attached to the first classified error in err's
// chain that has one.
func PathOf(err error) string {
	for err != nil {
		if e, ok := err.(*Error); ok && e.path != "" {
			return e.path
		}
		err = stderrors.Unwrap(err)
	}
	return ""
}
