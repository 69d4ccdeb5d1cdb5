package gpu

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeDriver struct {
	initErr     error
	sampleErr   error
	samplePanic bool
	stat        Stat

	inits     int
	samples   int
	shutdowns int
}

func (f *fakeDriver) Init() error {
	f.inits++
	return f.initErr
}

func (f *fakeDriver) Sample() (Stat, error) {
	f.samples++
	if f.samplePanic {
		panic("driver exploded")
	}
	return f.stat, f.sampleErr
}

func (f *fakeDriver) Shutdown() error {
	f.shutdowns++
	return nil
}

func TestSession_LazyAcquire(t *testing.T) {
	temp := 61.0
	d := &fakeDriver{stat: Stat{UtilizationPercent: 40, TemperatureC: &temp, VRAMUsed: 2, VRAMTotal: 8, HasVRAM: true}}
	s := NewSession(d, testLogger())

	if s.State() != Uninitialized {
		t.Fatalf("expected uninitialized, got %s", s.State())
	}
	if d.inits != 0 {
		t.Fatal("driver initialised before first sample")
	}

	stat, err := s.Sample()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stat.UtilizationPercent != 40 || stat.VRAMPercent() != 25 {
		t.Errorf("unexpected stat %+v", stat)
	}
	if s.State() != Acquired {
		t.Errorf("expected acquired, got %s", s.State())
	}

	s.Sample()
	if d.inits != 1 {
		t.Errorf("expected a single init, got %d", d.inits)
	}
}

func TestSession_FailedAcquireIsCached(t *testing.T) {
	d := &fakeDriver{initErr: errors.New("no device")}
	s := NewSession(d, testLogger())

	if _, err := s.Sample(); err == nil {
		t.Fatal("expected init error")
	}

	for i := 0; i < 10; i++ {
		if _, err := s.Sample(); !errors.Is(err, ErrUnavailable) {
			t.Fatalf("expected ErrUnavailable, got %v", err)
		}
	}

	if d.inits != 1 {
		t.Errorf("expected one init attempt, got %d", d.inits)
	}
	if s.State() != Uninitialized {
		t.Errorf("expected uninitialized, got %s", s.State())
	}
}

func TestSession_SampleFaultKeepsState(t *testing.T) {
	d := &fakeDriver{}
	s := NewSession(d, testLogger())
	s.Sample()

	d.sampleErr = errors.New("transient")
	if _, err := s.Sample(); err == nil {
		t.Fatal("expected sample error")
	}
	if s.State() != Acquired {
		t.Errorf("expected acquired after fault, got %s", s.State())
	}

	d.sampleErr = nil
	d.samplePanic = true
	if _, err := s.Sample(); err == nil {
		t.Fatal("expected error from panicking driver")
	}
	if s.State() != Acquired {
		t.Errorf("expected acquired after panic, got %s", s.State())
	}

	d.samplePanic = false
	if _, err := s.Sample(); err != nil {
		t.Errorf("expected recovery, got %v", err)
	}
}

func TestSession_CloseIdempotent(t *testing.T) {
	d := &fakeDriver{}
	s := NewSession(d, testLogger())
	s.Sample()

	for i := 0; i < 3; i++ {
		if err := s.Close(); err != nil {
			t.Fatalf("close %d: %v", i, err)
		}
	}

	if d.shutdowns != 1 {
		t.Errorf("expected one shutdown, got %d", d.shutdowns)
	}
	if _, err := s.Sample(); !errors.Is(err, ErrReleased) {
		t.Errorf("expected ErrReleased, got %v", err)
	}
}

func TestSession_CloseWithoutAcquire(t *testing.T) {
	d := &fakeDriver{}
	s := NewSession(d, testLogger())

	if err := s.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.shutdowns != 0 {
		t.Errorf("shutdown called on never-acquired driver")
	}
	if d.inits != 0 {
		t.Errorf("init called by Close")
	}
}

func TestDisabled(t *testing.T) {
	s := NewSession(Disabled(), testLogger())
	if _, err := s.Sample(); !errors.Is(err, ErrNoDriver) {
		t.Errorf("expected ErrNoDriver, got %v", err)
	}
}

func TestStat_VRAMPercentUnknown(t *testing.T) {
	if p := (Stat{VRAMUsed: 5}).VRAMPercent(); p != 0 {
		t.Errorf("expected 0 without VRAM info, got %f", p)
	}
}
