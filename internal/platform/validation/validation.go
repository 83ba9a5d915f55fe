// Package validation collects field-level validation failures for a record.
// A record with any failure is invalid and must not be persisted.
package validation

import (
	"errors"
	"strings"
)

// Kind sentinels; match with errors.Is on an *Errors or a single *Error.
var (
	ErrFormat      = errors.New("format error")
	ErrConsistency = errors.New("consistency error")
	ErrUniqueness  = errors.New("uniqueness error")
	ErrPresence    = errors.New("presence error")
	ErrInclusion   = errors.New("inclusion error")
)

// Error is a single field failure.
type Error struct {
	Field   string
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Field + " " + e.Message
}

// Unwrap returns the kind sentinel.
func (e *Error) Unwrap() error {
	return e.Kind
}

// FormatError reports a field whose value has the wrong shape (e.g. length).
func FormatError(field, message string) *Error {
	return &Error{Field: field, Kind: ErrFormat, Message: message}
}

// ConsistencyError reports a field that conflicts with a related field.
func ConsistencyError(field, message string) *Error {
	return &Error{Field: field, Kind: ErrConsistency, Message: message}
}

// UniquenessError reports a field whose value is already taken by another record.
func UniquenessError(field string) *Error {
	return &Error{Field: field, Kind: ErrUniqueness, Message: "has already been taken"}
}

// PresenceError reports a required field that is blank.
func PresenceError(field string) *Error {
	return &Error{Field: field, Kind: ErrPresence, Message: "can't be blank"}
}

// InclusionError reports a field whose value is not in the allowed set.
func InclusionError(field string) *Error {
	return &Error{Field: field, Kind: ErrInclusion, Message: "is not included in the list"}
}

// Errors is the record-level invalid state: every failing field, in the order found.
type Errors struct {
	list []*Error
}

// Add appends e. A nil e is ignored.
func (v *Errors) Add(e *Error) {
	if e == nil {
		return
	}
	v.list = append(v.list, e)
}

// Len returns the number of failures.
func (v *Errors) Len() int {
	if v == nil {
		return 0
	}
	return len(v.list)
}

// All returns a copy of the failures.
func (v *Errors) All() []*Error {
	if v == nil {
		return nil
	}
	out := make([]*Error, len(v.list))
	copy(out, v.list)
	return out
}

// On returns the messages recorded for field.
func (v *Errors) On(field string) []string {
	if v == nil {
		return nil
	}
	var out []string
	for _, e := range v.list {
		if e.Field == field {
			out = append(out, e.Message)
		}
	}
	return out
}

// Err returns v as an error, or nil when there are no failures.
func (v *Errors) Err() error {
	if v.Len() == 0 {
		return nil
	}
	return v
}

func (v *Errors) Error() string {
	parts := make([]string, 0, len(v.list))
	for _, e := range v.list {
		parts = append(parts, e.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes every failure so errors.Is and errors.As see each kind.
func (v *Errors) Unwrap() []error {
	out := make([]error, 0, len(v.list))
	for _, e := range v.list {
		out = append(out, e)
	}
	return out
}

// Single wraps one failure as a record-level error.
func Single(e *Error) error {
	v := &Errors{}
	v.Add(e)
	return v.Err()
}

// IsBlank reports whether s is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// As returns the *Errors in err's chain, if any.
func As(err error) (*Errors, bool) {
	var v *Errors
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
