// Package errors defines the typed parse errors raised by the Blockdown
// engine and a collector used to accumulate findings across whole documents
// or directories.
package errors

import (
	"errors"
	"fmt"
	"sync"
)

// ParseErrorKind classifies the ways a block document can fail to parse.
type ParseErrorKind int

const (
	// KindMalformedBlockBody means a fence body did not decode under the
	// key-value grammar (e.g. an unterminated quoted string)
	KindMalformedBlockBody ParseErrorKind = iota
	// KindUnmatchedBlockEnd means a block:end fence appeared with no open
	// container
	KindUnmatchedBlockEnd
	// KindUnclosedContainer means input ended with containers still open
	KindUnclosedContainer
)

// String returns the string representation of the kind.
func (k ParseErrorKind) String() string {
	switch k {
	case KindMalformedBlockBody:
		return "malformed block body"
	case KindUnmatchedBlockEnd:
		return "unmatched block:end"
	case KindUnclosedContainer:
		return "unclosed container"
	default:
		return "unknown"
	}
}

// ParseError is a structural or decode failure raised while parsing a block
// document. The whole parse fails; no partial tree is returned alongside it.
type ParseError struct {
	Kind ParseErrorKind
	// File is the source path when known, empty for in-memory text
	File string
	// Line is the 1-based line of the offending fence, 0 when unknown
	Line    int
	Message string
	// Err is the underlying cause (e.g. the YAML decode error), may be nil
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	where := e.File
	if e.Line > 0 {
		where = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	if where != "" {
		return fmt.Sprintf("%s: %s: %s", where, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// MalformedBlockBody constructs a body decode failure.
func MalformedBlockBody(line int, err error) *ParseError {
	return &ParseError{
		Kind:    KindMalformedBlockBody,
		Line:    line,
		Message: err.Error(),
		Err:     err,
	}
}

// UnmatchedBlockEnd constructs a stray block:end failure.
func UnmatchedBlockEnd(line int) *ParseError {
	return &ParseError{
		Kind:    KindUnmatchedBlockEnd,
		Line:    line,
		Message: "block:end without an open container",
	}
}

// UnclosedContainer constructs an end-of-input-with-open-frames failure.
func UnclosedContainer(open int) *ParseError {
	return &ParseError{
		Kind:    KindUnclosedContainer,
		Message: fmt.Sprintf("%d container(s) left open at end of input", open),
	}
}

// IsKind reports whether err is (or wraps) a ParseError of the given kind.
func IsKind(err error, kind ParseErrorKind) bool {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}

// Finding is one validation issue attributed to a file.
type Finding struct {
	File    string
	BlockID string
	Message string
}

// Collector accumulates parse errors and validation findings across many
// files. Safe for concurrent use by directory walkers.
type Collector struct {
	mu       sync.RWMutex
	errors   []error
	findings []Finding
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// AddError records a parse error. Nil errors are ignored.
func (c *Collector) AddError(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, err)
}

// AddFinding records a validation finding.
func (c *Collector) AddFinding(f Finding) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.findings = append(c.findings, f)
}

// Errors returns a copy of the collected errors.
func (c *Collector) Errors() []error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]error, len(c.errors))
	copy(out, c.errors)
	return out
}

// Findings returns a copy of the collected findings.
func (c *Collector) Findings() []Finding {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Finding, len(c.findings))
	copy(out, c.findings)
	return out
}

// HasIssues reports whether anything was collected.
func (c *Collector) HasIssues() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.errors) > 0 || len(c.findings) > 0
}
