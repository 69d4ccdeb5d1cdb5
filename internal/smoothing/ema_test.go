package smoothing

import "testing"

func TestNew_InvalidAlpha(t *testing.T) {
	for _, alpha := range []float64{0, 1, -0.5, 1.5} {
		if _, err := New(alpha); err == nil {
			t.Errorf("expected error for alpha %v", alpha)
		}
	}
}

func TestSmooth_FirstObservation(t *testing.T) {
	e := MustNew(DefaultAlpha)

	if got := e.Smooth("cpu", 42.5); got != 42.5 {
		t.Errorf("expected first value unchanged, got %f", got)
	}
}

func TestSmooth_FixedPoint(t *testing.T) {
	e := MustNew(DefaultAlpha)

	for i := 0; i < 50; i++ {
		if got := e.Smooth("ram", 70); got != 70 {
			t.Fatalf("iteration %d: expected 70, got %f", i, got)
		}
	}
}

func TestSmooth_Blend(t *testing.T) {
	e := MustNew(0.30)
	e.Smooth("gpu", 50)

	if got := e.Smooth("gpu", 60); got != 53.0 {
		t.Errorf("expected 53.0, got %v", got)
	}
}

func TestSmooth_RateScenario(t *testing.T) {
	e := MustNew(DefaultAlpha)

	if got := e.Smooth("net.down", 1_000_000); got != 1_000_000 {
		t.Errorf("expected 1000000, got %f", got)
	}
}

func TestSmooth_Deterministic(t *testing.T) {
	inputs := []float64{10, 80, 35, 35, 90, 0, 12}

	run := func() []float64 {
		e := MustNew(0.25)
		out := make([]float64, len(inputs))
		for i, v := range inputs {
			out[i] = e.Smooth("m", v)
		}
		return out
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("step %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestSmooth_IndependentKeys(t *testing.T) {
	e := MustNew(0.5)
	e.Smooth("a", 100)
	e.Smooth("b", 0)

	if got := e.Smooth("a", 0); got != 50 {
		t.Errorf("expected a=50, got %f", got)
	}
	if v, _ := e.Value("b"); v != 0 {
		t.Errorf("expected b untouched, got %f", v)
	}
	if e.Len() != 2 {
		t.Errorf("expected 2 keys, got %d", e.Len())
	}
}

func TestValue_Missing(t *testing.T) {
	e := MustNew(0.5)
	if _, ok := e.Value("nope"); ok {
		t.Error("expected missing key")
	}
}
