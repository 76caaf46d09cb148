/*
Package diag collects the recoverable errors and warnings of a single
conversion run.

A run keeps going after a recoverable error so that every defect in the
source image is reported at once; the caller then refuses to write any
output if at least one error was recorded.
*/
package diag

import (
	"errors"
	"fmt"
	"io"
)

// Severity classifies an Entry.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Entry is a single recorded diagnostic.
type Entry struct {
	Severity Severity
	Err      error
}

func (e Entry) String() string {
	return fmt.Sprintf("%s: %v", e.Severity, e.Err)
}

// Diagnostics is threaded through every stage of a run. The zero value is
// ready to use.
type Diagnostics struct {
	entries []Entry
	errors  int
}

// New returns an empty Diagnostics.
func New() *Diagnostics {
	return new(Diagnostics)
}

// Errorf records an error. kind should be one of the sentinel errors of
// the stage reporting it so that callers can match it with errors.Is.
func (d *Diagnostics) Errorf(kind error, format string, a ...interface{}) {
	d.entries = append(d.entries, Entry{Error, fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, a...))})
	d.errors++
}

// Warnf records a warning.
func (d *Diagnostics) Warnf(format string, a ...interface{}) {
	d.entries = append(d.entries, Entry{Warning, fmt.Errorf(format, a...)})
}

// Errors returns the number of errors recorded so far.
func (d *Diagnostics) Errors() int {
	return d.errors
}

// Entries returns every recorded diagnostic in the order it was recorded.
func (d *Diagnostics) Entries() []Entry {
	return d.entries
}

// Count returns how many errors of the given kind were recorded.
func (d *Diagnostics) Count(kind error) (n int) {
	for _, e := range d.entries {
		if e.Severity == Error && errors.Is(e.Err, kind) {
			n++
		}
	}
	return
}

// Has reports whether at least one error of the given kind was recorded.
func (d *Diagnostics) Has(kind error) bool {
	return d.Count(kind) > 0
}

// Print writes every entry to w, one per line.
func (d *Diagnostics) Print(w io.Writer) error {
	for _, e := range d.entries {
		if _, err := fmt.Fprintln(w, e); err != nil {
			return err
		}
	}
	return nil
}

// AbortedError is returned by Err when a run recorded errors.
type AbortedError struct {
	Count int
}

func (e *AbortedError) Error() string {
	s := "s"
	if e.Count == 1 {
		s = ""
	}
	return fmt.Sprintf("conversion aborted after %d error%s", e.Count, s)
}

// Err returns nil if no error was recorded, otherwise an *AbortedError.
func (d *Diagnostics) Err() error {
	if d.errors == 0 {
		return nil
	}
	return &AbortedError{Count: d.errors}
}
