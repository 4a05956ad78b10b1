package formula

import (
	"sync"
	"testing"
)

func TestCacheReturnsSameCompilation(t *testing.T) {
	t.Parallel()

	cache := NewCache()

	first, err := cache.Compile("width_value * price_per_sqm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := cache.Compile("width_value * price_per_sqm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatal("expected cache to return the identical compilation")
	}
}

func TestCacheDoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	cache := NewCache()

	if _, err := cache.Compile("1 +"); err == nil {
		t.Fatal("expected syntax error")
	}
	if _, err := cache.Compile("1 +"); err == nil {
		t.Fatal("expected syntax error on second lookup")
	}
}

func TestCacheConcurrentCompile(t *testing.T) {
	t.Parallel()

	cache := NewCache()
	bindings := map[string]float64{"width_value": 2, "price_per_sqm": 10}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			compiled, err := cache.Compile("width_value * price_per_sqm")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			got, err := compiled.Evaluate(bindings)
			if err != nil {
				t.Errorf("unexpected evaluate error: %v", err)
				return
			}
			if got != 20 {
				t.Errorf("expected 20, got %v", got)
			}
		}()
	}
	wg.Wait()
}
