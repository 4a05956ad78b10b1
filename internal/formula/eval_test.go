package formula

import (
	"errors"
	"testing"
)

func mustCompile(t *testing.T, source string) *Compiled {
	t.Helper()
	compiled, err := Compile(source)
	if err != nil {
		t.Fatalf("unexpected compile error for %q: %v", source, err)
	}
	return compiled
}

func TestEvaluateArithmetic(t *testing.T) {
	t.Parallel()

	cases := []struct {
		source   string
		bindings map[string]float64
		expected float64
	}{
		{source: "2 + 3 * 4", expected: 14},
		{source: "(2 + 3) * 4", expected: 20},
		{source: "10 / 4", expected: 2.5},
		{source: "-3 + 5", expected: 2},
		{source: "2 * -3", expected: -6},
		{source: "--4", expected: 4},
		{source: "10 - 4 - 3", expected: 3},
		{source: "100 / 10 / 2", expected: 5},
		{source: "0.5 * 4", expected: 2},
		{
			source:   "width_value * length_value * price_per_sqm",
			bindings: map[string]float64{"width_value": 2, "length_value": 3, "price_per_sqm": 12.5},
			expected: 75,
		},
		{
			source:   "base + width_value * price_per_sqm * (1 + tax)",
			bindings: map[string]float64{"base": 10, "width_value": 4, "price_per_sqm": 5, "tax": 0.5},
			expected: 40,
		},
	}

	for _, tc := range cases {
		t.Run(tc.source, func(t *testing.T) {
			compiled := mustCompile(t, tc.source)
			got, err := compiled.Evaluate(tc.bindings)
			if err != nil {
				t.Fatalf("unexpected evaluate error: %v", err)
			}
			if got != tc.expected {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	t.Parallel()

	compiled := mustCompile(t, "width_value * price_per_sqm / 3 + 0.1")
	bindings := map[string]float64{"width_value": 1.7, "price_per_sqm": 23.99}

	first, err := compiled.Evaluate(bindings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 100; i++ {
		again, err := compiled.Evaluate(bindings)
		if err != nil {
			t.Fatalf("unexpected error on iteration %d: %v", i, err)
		}
		if again != first {
			t.Fatalf("expected %v on iteration %d, got %v", first, i, again)
		}
	}
}

func TestEvaluateUnknownVariable(t *testing.T) {
	t.Parallel()

	compiled := mustCompile(t, "width_value * missing_param")
	_, err := compiled.Evaluate(map[string]float64{"width_value": 2})
	if err == nil {
		t.Fatal("expected unknown variable error")
	}
	var unknown *UnknownVariableError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected *UnknownVariableError, got %T: %v", err, err)
	}
	if unknown.Name != "missing_param" {
		t.Fatalf("expected missing_param, got %q", unknown.Name)
	}
}

func TestEvaluateDivisionByZero(t *testing.T) {
	t.Parallel()

	compiled := mustCompile(t, "x / y")
	_, err := compiled.Evaluate(map[string]float64{"x": 10, "y": 0})
	if err == nil {
		t.Fatal("expected division by zero error")
	}
	var divErr *DivisionByZeroError
	if !errors.As(err, &divErr) {
		t.Fatalf("expected *DivisionByZeroError, got %T: %v", err, err)
	}
}

func TestEvaluateOverflowToInfinity(t *testing.T) {
	t.Parallel()

	compiled := mustCompile(t, "x * x")
	_, err := compiled.Evaluate(map[string]float64{"x": 1e200})
	if err == nil {
		t.Fatal("expected non-finite result error")
	}
	var finErr *NonFiniteResultError
	if !errors.As(err, &finErr) {
		t.Fatalf("expected *NonFiniteResultError, got %T: %v", err, err)
	}
}

func TestEvaluateNaNResult(t *testing.T) {
	t.Parallel()

	// Inf - Inf is NaN; both operands overflow before the subtraction.
	compiled := mustCompile(t, "x * x - y * y")
	_, err := compiled.Evaluate(map[string]float64{"x": 1e200, "y": 1e200})
	var finErr *NonFiniteResultError
	if !errors.As(err, &finErr) {
		t.Fatalf("expected *NonFiniteResultError, got %T: %v", err, err)
	}
}

func TestEvaluateLiteralDivisionByZero(t *testing.T) {
	t.Parallel()

	compiled := mustCompile(t, "1 / 0")
	_, err := compiled.Evaluate(nil)
	var divErr *DivisionByZeroError
	if !errors.As(err, &divErr) {
		t.Fatalf("expected *DivisionByZeroError, got %T: %v", err, err)
	}
}
