// Package errors defines the diagnostic type shared across the front end,
// adapted from cuelang.org/go/cue/errors: an Error interface, a sortable
// List, and a Print/Details pair that renders file:line:col plus an
// ASCII-underlined source excerpt.
package errors

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/flint-lang/flintc/token"
)

// Error is the interface implemented by every diagnostic produced by the
// front end. Already-reported errors short-circuit upward through this
// interface without being printed twice (see Promote).
type Error interface {
	error
	Position() token.Pos
	InputPositions() []token.Pos
	Path() []string
	Msg() (format string, args []interface{})
}

// Kind classifies the stage that produced an Error, per spec.md §7.
type Kind int

const (
	Lex Kind = iota
	Parse
	Resolve
	Semantic
	Internal
)

func (k Kind) String() string {
	switch k {
	case Lex:
		return "lex error"
	case Parse:
		return "parse error"
	case Resolve:
		return "resolve error"
	case Semantic:
		return "semantic error"
	case Internal:
		return "internal error"
	}
	return "error"
}

type posError struct {
	pos    token.Pos
	path   []string
	kind   Kind
	format string
	args   []interface{}
}

func (e *posError) Error() string {
	return fmt.Sprintf("%s: %s", e.pos, fmt.Sprintf(e.format, e.args...))
}
func (e *posError) Position() token.Pos           { return e.pos }
func (e *posError) InputPositions() []token.Pos   { return []token.Pos{e.pos} }
func (e *posError) Path() []string                { return e.path }
func (e *posError) Msg() (string, []interface{})  { return e.format, e.args }

// Newf creates an Error with the given position and message.
func Newf(kind Kind, pos token.Pos, format string, args ...interface{}) Error {
	return &posError{pos: pos, kind: kind, format: format, args: args}
}

type wrapped struct {
	err   Error
	cause error
}

func (w *wrapped) Error() string                { return w.err.Error() }
func (w *wrapped) Position() token.Pos          { return w.err.Position() }
func (w *wrapped) InputPositions() []token.Pos  { return w.err.InputPositions() }
func (w *wrapped) Path() []string               { return w.err.Path() }
func (w *wrapped) Msg() (string, []interface{}) { return w.err.Msg() }
func (w *wrapped) Unwrap() error { return w.cause }

// Wrapf annotates err with a position and message, preserving err as the
// cause for errors.Unwrap/errors.Is.
func Wrapf(err error, pos token.Pos, format string, args ...interface{}) Error {
	return &wrapped{err: Newf(Parse, pos, format, args...), cause: err}
}

// Wrap is Wrapf without a new message; it just attaches position context.
func Wrap(err error, pos token.Pos) Error {
	if e, ok := err.(Error); ok {
		return e
	}
	return Wrapf(err, pos, "%v", err)
}

// Promote turns a plain error into an Error, tagging it with msg if it is
// not already one — the "already-reported" boundary of spec.md §7: callers
// that already hold an Error should pass it through untouched.
func Promote(err error, msg string) Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(Error); ok {
		return e
	}
	return Newf(Internal, token.NoPos, "%s: %v", msg, err)
}

// List is a sortable collection of Errors, the aggregate diagnostic stream
// of a compile run.
type List []Error

func (p List) Error() string {
	switch len(p) {
	case 0:
		return "no errors"
	case 1:
		return p[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", p[0].Error(), len(p)-1)
}

func (p List) Len() int      { return len(p) }
func (p List) Swap(i, j int) { p[i], p[j] = p[j], p[i] }
func (p List) Less(i, j int) bool {
	e, f := p[i].Position(), p[j].Position()
	pi, pj := e.Position(), f.Position()
	if pi.Filename != pj.Filename {
		return pi.Filename < pj.Filename
	}
	if pi.Line != pj.Line {
		return pi.Line < pj.Line
	}
	return pi.Column < pj.Column
}

// Sort sorts the error list by file, line, column.
func (p List) Sort() { sort.Sort(p) }

// Append adds errs to the list, flattening nested Lists.
func Append(list List, errs ...error) List {
	for _, err := range errs {
		if err == nil {
			continue
		}
		switch x := err.(type) {
		case List:
			list = Append(list, x.AsErrors()...)
		case Error:
			list = append(list, x)
		default:
			list = append(list, Promote(err, "error"))
		}
	}
	return list
}

// AsErrors views the list as a plain []error slice.
func (p List) AsErrors() []error {
	out := make([]error, len(p))
	for i, e := range p {
		out[i] = e
	}
	return out
}

// RemoveMultiples sorts the list and removes consecutive duplicate
// messages at the same position.
func (p List) RemoveMultiples() List {
	p.Sort()
	if len(p) <= 1 {
		return p
	}
	out := p[:1]
	for _, e := range p[1:] {
		last := out[len(out)-1]
		if last.Position() == e.Position() && last.Error() == e.Error() {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Print writes every error in the list to w, one block per error: a
// file:line:col header, the message, and an ASCII-underlined source
// excerpt when the position's File carries content.
func Print(w io.Writer, err error) {
	for _, e := range toList(err) {
		printError(w, e)
	}
}

func toList(err error) List {
	switch x := err.(type) {
	case nil:
		return nil
	case List:
		return x
	case Error:
		return List{x}
	default:
		return List{Promote(x, "error")}
	}
}

func printError(w io.Writer, e Error) {
	pos := e.Position()
	p := pos.Position()
	fmt.Fprintf(w, "%s: %s\n", p, e.Error())
	f := pos.File()
	if f == nil || !p.IsValid() {
		return
	}
	line := f.Line(p.Line)
	if line == nil {
		return
	}
	fmt.Fprintf(w, "    %s\n", line)
	col := p.Column - 1
	if col < 0 {
		col = 0
	}
	fmt.Fprintf(w, "    %s^\n", strings.Repeat(" ", col))
}

// Details renders the list and a trailing "N errors" summary line, the
// user-visible failure report of spec.md §7.
func Details(w io.Writer, errs List) {
	Print(w, errs)
	switch len(errs) {
	case 0:
		fmt.Fprintln(w, "0 errors")
	case 1:
		fmt.Fprintln(w, "1 error")
	default:
		fmt.Fprintf(w, "%d errors\n", len(errs))
	}
}
