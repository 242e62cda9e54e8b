package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors that can occur outside the typed taxonomy below.
var (
	// ErrEmptyDocument indicates that a schema source contained no data.
	ErrEmptyDocument = errors.New("empty document")

	// ErrInvalidTemplate indicates that a templated string is syntactically
	// malformed (unterminated or empty "${...}" placeholder).
	ErrInvalidTemplate = errors.New("invalid template")
)

// ParseError indicates that a schema source is not well-formed YAML.
// It wraps the decoder's error so callers can inspect the cause.
type ParseError struct {
	// Err is the underlying decoding error.
	Err error
}

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string { return fmt.Sprintf("parse error: %v", e.Err) }

// Unwrap returns the underlying error, supporting Go 1.13+ error unwrapping.
func (e *ParseError) Unwrap() error { return e.Err }

// NewParseError wraps err as a ParseError.
func NewParseError(err error) *ParseError { return &ParseError{Err: err} }

// SchemaError indicates that a document is well-formed but violates the
// schema's shape: a required field is missing, or a field has the wrong
// structure. It pinpoints the offending location in the source document.
type SchemaError struct {
	// Section is the top-level section containing the violation,
	// e.g. "metrics" or "run_groups".
	Section string

	// Entity is the name of the offending entry, when one is known.
	Entity string

	// Field is the field that is missing or misshapen.
	Field string

	// Detail describes the violation.
	Detail string
}

// Error implements the error interface for SchemaError.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("schema error: section=" + e.Section)
	if e.Entity != "" {
		b.WriteString(", entity=" + e.Entity)
	}
	if e.Field != "" {
		b.WriteString(", field=" + e.Field)
	}
	b.WriteString(": " + e.Detail)
	return b.String()
}

// NewSchemaError creates a SchemaError with the given location and detail.
func NewSchemaError(section, entity, field, detail string) *SchemaError {
	return &SchemaError{Section: section, Entity: entity, Field: field, Detail: detail}
}

// DuplicateNameError indicates that a name appears more than once within a
// single top-level section.
type DuplicateNameError struct {
	// Section is the section containing the collision, e.g. "metrics".
	Section string

	// Name is the duplicated key.
	Name string
}

// Error implements the error interface for DuplicateNameError.
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate name: section=%s, name=%q", e.Section, e.Name)
}

// NewDuplicateNameError creates a DuplicateNameError for the given section
// and duplicated key.
func NewDuplicateNameError(section, name string) *DuplicateNameError {
	return &DuplicateNameError{Section: section, Name: name}
}

// DanglingReferenceError indicates that an entity references a name that
// does not exist in the target section.
type DanglingReferenceError struct {
	// Kind is the kind of entity the reference should have resolved to.
	Kind Kind

	// From locates the referring entity in the source document.
	From string

	// To is the name that failed to resolve.
	To string

	// Suggestion is the closest existing name, when one is close enough.
	Suggestion string
}

// Error implements the error interface for DanglingReferenceError.
func (e *DanglingReferenceError) Error() string {
	msg := fmt.Sprintf("dangling reference: kind=%s, from=%s, to=%q", e.Kind, e.From, e.To)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// NewDanglingReferenceError creates a DanglingReferenceError and computes a
// "did you mean" suggestion from the candidate names.
func NewDanglingReferenceError(kind Kind, from, to string, candidates []string) *DanglingReferenceError {
	return &DanglingReferenceError{
		Kind:       kind,
		From:       from,
		To:         to,
		Suggestion: SuggestName(to, candidates),
	}
}

// CyclicSubgroupError indicates that run-group subgroup references form a
// cycle. Path lists the run-group names along the cycle, ending where it
// started.
type CyclicSubgroupError struct {
	// Path is the cycle, e.g. ["a", "b", "a"].
	Path []string
}

// Error implements the error interface for CyclicSubgroupError.
func (e *CyclicSubgroupError) Error() string {
	return fmt.Sprintf("cyclic subgroups: %s", strings.Join(e.Path, " -> "))
}

// NewCyclicSubgroupError creates a CyclicSubgroupError with the given cycle.
func NewCyclicSubgroupError(path []string) *CyclicSubgroupError {
	return &CyclicSubgroupError{Path: path}
}

// UnresolvedPlaceholderError indicates that a "${var}" placeholder has no
// binding in the enclosing run group's environment.
type UnresolvedPlaceholderError struct {
	// Variable is the placeholder name with no binding.
	Variable string

	// Entry is the templated text that contained the placeholder.
	Entry string
}

// Error implements the error interface for UnresolvedPlaceholderError.
func (e *UnresolvedPlaceholderError) Error() string {
	return fmt.Sprintf("unresolved placeholder: variable=%s, entry=%q", e.Variable, e.Entry)
}

// NewUnresolvedPlaceholderError creates an UnresolvedPlaceholderError for
// the given variable and the entry text that referenced it.
func NewUnresolvedPlaceholderError(variable, entry string) *UnresolvedPlaceholderError {
	return &UnresolvedPlaceholderError{Variable: variable, Entry: entry}
}

// NotFoundError indicates that a lookup named an entity that does not exist.
type NotFoundError struct {
	// Kind is the kind of entity that was requested.
	Kind Kind

	// Name is the requested name.
	Name string

	// Suggestion is the closest existing name, when one is close enough.
	Suggestion string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s not found: %q", e.Kind, e.Name)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// NewNotFoundError creates a NotFoundError and computes a "did you mean"
// suggestion from the candidate names.
func NewNotFoundError(kind Kind, name string, candidates []string) *NotFoundError {
	return &NotFoundError{Kind: kind, Name: name, Suggestion: SuggestName(name, candidates)}
}
