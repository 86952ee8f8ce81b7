// Package errors provides error handling for clientgen.
//
// This package re-exports github.com/cockroachdb/errors and adds the three
// fatal error kinds the generator core can raise:
//
//   - ErrInvalidInput: a required argument is absent or empty
//   - ErrStructure: the tree does not match an operation's expected shape
//   - ErrUnsupportedType: a type expression cannot be translated
//
// None of them is recoverable. Callers wrap them with context and return them
// upward; use errors.Is to classify.
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New       = crdb.New
	Newf      = crdb.Newf
	Wrap      = crdb.Wrap
	Wrapf     = crdb.Wrapf
	WithStack = crdb.WithStack
	WithHint  = crdb.WithHint
	WithHintf = crdb.WithHintf
)

// Error inspection
var (
	Is    = crdb.Is
	IsAny = crdb.IsAny
	As    = crdb.As
	Mark  = crdb.Mark

	FlattenHints = crdb.FlattenHints
)

// Sentinel kinds. Errors produced by InvalidInputf, Structuref and
// UnsupportedTypef are marked with one of these.
var (
	ErrInvalidInput    = New("invalid input")
	ErrStructure       = New("structural invariant violation")
	ErrUnsupportedType = New("unsupported type")
)

// InvalidInputf creates an error marked as ErrInvalidInput.
func InvalidInputf(format string, args ...interface{}) error {
	return crdb.Mark(crdb.NewWithDepthf(1, format, args...), ErrInvalidInput)
}

// Structuref creates an error marked as ErrStructure.
func Structuref(format string, args ...interface{}) error {
	return crdb.Mark(crdb.NewWithDepthf(1, format, args...), ErrStructure)
}

// UnsupportedTypef creates an error marked as ErrUnsupportedType.
func UnsupportedTypef(format string, args ...interface{}) error {
	return crdb.Mark(crdb.NewWithDepthf(1, format, args...), ErrUnsupportedType)
}

// IsInvalidInput reports whether err is or wraps ErrInvalidInput.
func IsInvalidInput(err error) bool {
	return err != nil && Is(err, ErrInvalidInput)
}

// IsStructure reports whether err is or wraps ErrStructure.
func IsStructure(err error) bool {
	return err != nil && Is(err, ErrStructure)
}

// IsUnsupportedType reports whether err is or wraps ErrUnsupportedType.
func IsUnsupportedType(err error) bool {
	return err != nil && Is(err, ErrUnsupportedType)
}
