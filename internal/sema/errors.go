package sema

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes analysis errors.
type ErrorCode string

const (
	// ErrCodeLookupFailed indicates a named pointer or property does not
	// resolve against a concept or link type.
	ErrCodeLookupFailed ErrorCode = "LOOKUP_FAILED"

	// ErrCodeUntypedExpr indicates an expression has no inferable type in
	// a context that requires one.
	ErrCodeUntypedExpr ErrorCode = "UNTYPED_EXPRESSION"

	// ErrCodeAmbiguousParam indicates two different types were inferred
	// for the same parameter index.
	ErrCodeAmbiguousParam ErrorCode = "AMBIGUOUS_PARAM"

	// ErrCodeUnsupportedOperator indicates an operator appears in a
	// context with no inference rule.
	ErrCodeUnsupportedOperator ErrorCode = "UNSUPPORTED_OPERATOR"

	// ErrCodeInternal indicates an invariant violation: malformed IR, an
	// unrecognized variant, or inference producing a non-type. These are
	// upstream compiler bugs, never user errors, and must abort the
	// compilation.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// AnalysisError is a structured semantic-analysis failure.
type AnalysisError struct {
	Code    ErrorCode
	Message string
	Details map[string]string
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsLookupError reports whether err is a failed pointer lookup.
func IsLookupError(err error) bool { return hasCode(err, ErrCodeLookupFailed) }

// IsAmbiguousParamError reports whether err is an ambiguous parameter
// resolution.
func IsAmbiguousParamError(err error) bool { return hasCode(err, ErrCodeAmbiguousParam) }

// IsUnsupportedOperatorError reports whether err is a missing operator
// inference rule.
func IsUnsupportedOperatorError(err error) bool { return hasCode(err, ErrCodeUnsupportedOperator) }

// IsInternalError reports whether err is an internal invariant violation.
func IsInternalError(err error) bool { return hasCode(err, ErrCodeInternal) }

func hasCode(err error, code ErrorCode) bool {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

func newLookupError(source, name string) *AnalysisError {
	return &AnalysisError{
		Code:    ErrCodeLookupFailed,
		Message: fmt.Sprintf("[%s].[%s] does not resolve to any known path", source, name),
		Details: map[string]string{"source": source, "name": name},
	}
}

func newUntypedError(context string) *AnalysisError {
	return &AnalysisError{
		Code:    ErrCodeUntypedExpr,
		Message: "cannot infer expression type: " + context,
	}
}

func newAmbiguousParamError(index int, a, b string) *AnalysisError {
	return &AnalysisError{
		Code: ErrCodeAmbiguousParam,
		Message: fmt.Sprintf(
			"cannot infer type of parameter $%d: ambiguous resolution: %s and %s",
			index, a, b),
		Details: map[string]string{"first": a, "second": b},
	}
}

func newUnsupportedOperatorError(op string) *AnalysisError {
	return &AnalysisError{
		Code:    ErrCodeUnsupportedOperator,
		Message: fmt.Sprintf("cannot infer expression type: unsupported operator %q", op),
		Details: map[string]string{"operator": op},
	}
}

func newInternalError(format string, args ...any) *AnalysisError {
	return &AnalysisError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
	}
}
