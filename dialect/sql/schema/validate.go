// Package schema checks that live tables carry the nullable timestamp
// columns declared for boolean timestamp fields.
package schema

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ValidationError describes one problem with a timestamp column.
type ValidationError struct {
	Table  string
	Column string
	// Field is the active name of the field that declared Column.
	Field   string
	Message string
	// Breaking is set when Act or a cleared Set would fail at runtime.
	Breaking bool
}

func (e *ValidationError) Error() string {
	if e.Column == "" {
		return e.Table + ": " + e.Message
	}
	return e.Table + "." + e.Column + ": " + e.Message
}

// ValidationResult holds the problems found for one table.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors reports whether any column failed the check.
func (r *ValidationResult) HasErrors() bool { return len(r.Errors) > 0 }

// HasWarnings reports whether any column is usable but suspicious.
func (r *ValidationResult) HasWarnings() bool { return len(r.Warnings) > 0 }

// HasBreakingChanges reports whether any problem is marked Breaking.
func (r *ValidationResult) HasBreakingChanges() bool {
	for _, e := range slices.Concat(r.Errors, r.Warnings) {
		if e.Breaking {
			return true
		}
	}
	return false
}

// Err joins the errors of r, or returns nil when there are none.
func (r *ValidationResult) Err() error {
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

func (r *ValidationResult) String() string {
	if !r.HasErrors() && !r.HasWarnings() {
		return "No issues found"
	}
	var b strings.Builder
	section(&b, "Errors", r.Errors)
	section(&b, "Warnings", r.Warnings)
	return b.String()
}

func section(b *strings.Builder, title string, list []*ValidationError) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	for _, e := range list {
		b.WriteString("  - " + e.Error())
		if e.Breaking {
			b.WriteString(" [BREAKING]")
		}
		b.WriteByte('\n')
	}
}
