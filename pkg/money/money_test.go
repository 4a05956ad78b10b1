package money

import "testing"

func TestToCents(t *testing.T) {
	t.Parallel()

	cases := []struct {
		major    float64
		expected int64
	}{
		{major: 0, expected: 0},
		{major: 1, expected: 100},
		{major: 19.99, expected: 1999},
		{major: 10.005, expected: 1001},
		{major: 10.004, expected: 1000},
		{major: 0.615, expected: 62},
		{major: 123.456, expected: 12346},
		{major: -2.505, expected: -251},
	}

	for _, tc := range cases {
		if got := ToCents(tc.major); got != tc.expected {
			t.Fatalf("ToCents(%v): expected %d, got %d", tc.major, tc.expected, got)
		}
	}
}

func TestPercentOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		cents    int64
		percent  float64
		expected int64
	}{
		{cents: 10000, percent: 21, expected: 2100},
		{cents: 999, percent: 21, expected: 210},
		{cents: 50, percent: 21, expected: 11},
		{cents: 10000, percent: 0, expected: 0},
		{cents: 1, percent: 50, expected: 1},
	}

	for _, tc := range cases {
		if got := PercentOf(tc.cents, tc.percent); got != tc.expected {
			t.Fatalf("PercentOf(%d, %v): expected %d, got %d", tc.cents, tc.percent, tc.expected, got)
		}
	}
}

func TestFromCents(t *testing.T) {
	t.Parallel()

	if got := FromCents(1999).String(); got != "19.99" {
		t.Fatalf("expected 19.99, got %s", got)
	}
	if got := FromCents(100).String(); got != "1" {
		t.Fatalf("expected 1, got %s", got)
	}
}
