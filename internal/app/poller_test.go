package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/five82/liker/internal/engagement"
	"github.com/five82/liker/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 30 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 30 * time.Second},
		{"negative failures", -1, 30 * time.Second},
		{"one failure", 1, time.Minute},
		{"two failures", 2, 2 * time.Minute},
		{"three failures", 3, 4 * time.Minute},
		{"four failures capped", 4, 5 * time.Minute}, // Would be 8m, capped to 5m
		{"many failures capped", 40, 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	// Verify that backoff never exceeds maxBackoff regardless of input
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 64; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type fakeSource struct {
	calls atomic.Int32
	err   error
}

func (f *fakeSource) Sync(context.Context) error {
	f.calls.Add(1)
	return f.err
}

func (f *fakeSource) Snapshot() engagement.State {
	return engagement.State{Profile: engagement.Profile{ID: "alice"}, Synced: true}
}

func TestRefresh_RecordsFailuresAndRecovery(t *testing.T) {
	store := &state.Store{}
	src := &fakeSource{err: errors.New("api down")}

	refresh(context.Background(), store, src, nil)
	refresh(context.Background(), store, src, nil)

	snap := store.Snapshot()
	if snap.ConsecutiveFailures != 2 || !snap.IsOffline() {
		t.Fatalf("failures = %d offline = %v, want 2 true", snap.ConsecutiveFailures, snap.IsOffline())
	}
	if !snap.HasState || snap.Engagement.Profile.ID != "alice" {
		t.Fatalf("snapshot state = %+v, want alice state kept", snap.Engagement)
	}

	src.err = nil
	refresh(context.Background(), store, src, nil)
	if snap := store.Snapshot(); snap.ConsecutiveFailures != 0 || snap.LastError != nil {
		t.Fatalf("after recovery failures = %d err = %v", snap.ConsecutiveFailures, snap.LastError)
	}
}

func TestRefresh_SkipsUpdateWhenCancelled(t *testing.T) {
	store := &state.Store{}
	src := &fakeSource{err: context.Canceled}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	refresh(ctx, store, src, nil)

	if snap := store.Snapshot(); snap.HasState || snap.ConsecutiveFailures != 0 {
		t.Fatalf("snapshot = %+v, want untouched store", snap)
	}
}

func TestStartPoller_ResyncsUntilCancelled(t *testing.T) {
	store := &state.Store{}
	src := &fakeSource{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartPoller(ctx, store, src, 5*time.Millisecond, nil)

	deadline := time.Now().Add(2 * time.Second)
	for src.calls.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("poller synced %d times, want at least 2", src.calls.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !store.Snapshot().HasState {
		t.Fatal("store has no state after polling")
	}
}

func TestStartPoller_DisabledInterval(t *testing.T) {
	src := &fakeSource{}
	StartPoller(context.Background(), &state.Store{}, src, 0, nil)
	time.Sleep(20 * time.Millisecond)
	if n := src.calls.Load(); n != 0 {
		t.Fatalf("poller synced %d times with interval 0", n)
	}
}
