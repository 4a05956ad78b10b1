package formula

import "fmt"

// SyntaxError reports malformed formula input. Position is the zero-based
// byte offset of the offending token so management UIs can point at it.
type SyntaxError struct {
	Position int
	Message  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at position %d: %s", e.Position, e.Message)
}

// UnknownVariableError reports an identifier with no binding at evaluation
// time. Missing bindings never default to zero: a silently wrong price is
// worse than a loud failure.
type UnknownVariableError struct {
	Name string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable %q", e.Name)
}

// DivisionByZeroError reports a zero divisor. Evaluation fails instead of
// producing Inf or NaN so such a value can never reach a customer total.
type DivisionByZeroError struct{}

func (e *DivisionByZeroError) Error() string {
	return "division by zero"
}

// NonFiniteResultError reports an evaluation that overflowed to Inf or NaN.
// Like DivisionByZeroError it keeps non-finite values out of totals.
type NonFiniteResultError struct{}

func (e *NonFiniteResultError) Error() string {
	return "formula result is not a finite number"
}
