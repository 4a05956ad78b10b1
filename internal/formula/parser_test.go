package formula

import (
	"testing"
)

func TestCompileReportsSyntaxErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		source   string
		position int
	}{
		{name: "empty expression", source: "", position: 0},
		{name: "blank expression", source: "   ", position: 3},
		{name: "unbalanced open paren", source: "(1 + 2", position: 6},
		{name: "unbalanced close paren", source: "1 + 2)", position: 5},
		{name: "adjacent operators", source: "1 + * 2", position: 4},
		{name: "trailing operator", source: "1 +", position: 3},
		{name: "double decimal point", source: "1.2.3", position: 3},
		{name: "unexpected character", source: "price ^ 2", position: 6},
		{name: "bare dot", source: ".", position: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compile(tc.source)
			if err == nil {
				t.Fatalf("expected syntax error for %q", tc.source)
			}
			synErr, ok := err.(*SyntaxError)
			if !ok {
				t.Fatalf("expected *SyntaxError, got %T: %v", err, err)
			}
			if synErr.Position != tc.position {
				t.Fatalf("expected position %d, got %d (%v)", tc.position, synErr.Position, synErr)
			}
		})
	}
}

func TestCompileCollectsVariables(t *testing.T) {
	t.Parallel()

	compiled, err := Compile("width_value * length_value * price_per_sqm + handling_fee")
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}

	vars := compiled.Variables()
	expected := []string{"handling_fee", "length_value", "price_per_sqm", "width_value"}
	if len(vars) != len(expected) {
		t.Fatalf("expected %d variables, got %v", len(expected), vars)
	}
	for i, name := range expected {
		if vars[i] != name {
			t.Fatalf("expected variable %q at index %d, got %v", name, i, vars)
		}
	}
}

func TestUnresolvedVariables(t *testing.T) {
	t.Parallel()

	compiled, err := Compile("width_value * price_per_sqm + margin + handling_fee")
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}

	missing := compiled.UnresolvedVariables(map[string]float64{"margin": 1.2})
	if len(missing) != 1 || missing[0] != "handling_fee" {
		t.Fatalf("expected [handling_fee], got %v", missing)
	}

	if missing := compiled.UnresolvedVariables(map[string]float64{"margin": 1.2, "handling_fee": 5}); len(missing) != 0 {
		t.Fatalf("expected no unresolved variables, got %v", missing)
	}
}
