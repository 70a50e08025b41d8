package observability

import (
	"context"
	"testing"
	"time"
)

type recordingSimHooks struct {
	NoopSimulationHooks
	transientStarts int
}

func (h *recordingSimHooks) OnTransientStart(ctx context.Context, circuit string, points int) {
	h.transientStarts++
}

type recordingCacheHooks struct {
	NoopCacheHooks
	hits, misses int
}

func (h *recordingCacheHooks) OnCacheHit(ctx context.Context, keyType string)  { h.hits++ }
func (h *recordingCacheHooks) OnCacheMiss(ctx context.Context, keyType string) { h.misses++ }

func TestDefaultHooksAreNoop(t *testing.T) {
	Reset()
	ctx := context.Background()

	// None of these should panic
	Simulation().OnOperatingPointStart(ctx, "test")
	Simulation().OnOperatingPointComplete(ctx, "test", 3, time.Millisecond, nil)
	Simulation().OnTransientStart(ctx, "test", 501)
	Simulation().OnTransientComplete(ctx, "test", 501, time.Second, nil)
	Render().OnRenderStart(ctx, "png")
	Render().OnRenderComplete(ctx, "png", 1024, time.Millisecond, nil)
	Cache().OnCacheHit(ctx, "waveform")
	Cache().OnCacheMiss(ctx, "waveform")
	Cache().OnCacheSet(ctx, "waveform", 2048)
}

func TestSetSimulationHooks(t *testing.T) {
	defer Reset()

	h := &recordingSimHooks{}
	SetSimulationHooks(h)

	Simulation().OnTransientStart(context.Background(), "inverter", 501)
	if h.transientStarts != 1 {
		t.Errorf("transientStarts = %d, want 1", h.transientStarts)
	}
}

func TestSetCacheHooks(t *testing.T) {
	defer Reset()

	h := &recordingCacheHooks{}
	SetCacheHooks(h)

	Cache().OnCacheHit(context.Background(), "waveform")
	Cache().OnCacheMiss(context.Background(), "waveform")
	if h.hits != 1 || h.misses != 1 {
		t.Errorf("hits = %d, misses = %d, want 1, 1", h.hits, h.misses)
	}
}

func TestSetNilHooksKeepsCurrent(t *testing.T) {
	defer Reset()

	h := &recordingSimHooks{}
	SetSimulationHooks(h)
	SetSimulationHooks(nil)

	Simulation().OnTransientStart(context.Background(), "inverter", 501)
	if h.transientStarts != 1 {
		t.Error("nil registration should not replace existing hooks")
	}
}
