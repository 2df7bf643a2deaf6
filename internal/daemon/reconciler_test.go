package daemon

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

type fakeFingerprints struct {
	values []string
	err    error
}

func (f *fakeFingerprints) InsetFingerprint() (string, error) {
	if f.err != nil {
		return "", f.err
	}
	v := f.values[0]
	if len(f.values) > 1 {
		f.values = f.values[1:]
	}
	return v, nil
}

func TestReconciler_RequestsOnlyOnChange(t *testing.T) {
	src := &fakeFingerprints{values: []string{"a", "a", "b", "b", "c"}}
	requests := 0
	r := NewReconciler(ReconcilerConfig{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))},
		src, func(fn func()) { fn() }, func() { requests++ })

	for i := 0; i < 5; i++ {
		r.ReconcileNow()
	}
	if requests != 2 {
		t.Fatalf("requests = %d, want 2", requests)
	}
}

func TestReconciler_IgnoresFingerprintErrors(t *testing.T) {
	src := &fakeFingerprints{err: errors.New("no client list")}
	requests := 0
	r := NewReconciler(ReconcilerConfig{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))},
		src, func(fn func()) { fn() }, func() { requests++ })

	r.ReconcileNow()
	r.ReconcileNow()
	if requests != 0 {
		t.Fatalf("requests = %d, want 0", requests)
	}
}
