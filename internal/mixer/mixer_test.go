package mixer

import (
	"math"
	"testing"
	"time"

	"github.com/m96-chan/ASRMixingRouter/internal/ring"
)

func constFill(n int, v float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestNoInputsWritesNothing(t *testing.T) {
	out := ring.New(1024)
	m := New(out, 1024)
	if n := m.MixOnce(); n != 0 {
		t.Fatalf("expected 0, got %d", n)
	}
}

func TestPassThroughPreservesExactSamples(t *testing.T) {
	in := ring.New(2048)
	out := ring.New(2048)
	m := New(out, 1024)
	m.AddInput("a", in, 1.0, false)

	src := make([]float32, 1000)
	for i := range src {
		src[i] = float32(math.Sin(float64(i) * 0.01))
	}
	in.PushSlice(src)

	n := m.MixOnce()
	if n != 1000 {
		t.Fatalf("expected 1000 written, got %d", n)
	}
	dst := make([]float32, 1000)
	out.PopSlice(dst)
	for i := range src {
		if dst[i] != src[i] {
			t.Fatalf("index %d: expected %v got %v", i, src[i], dst[i])
		}
	}
}

func TestSumWithGains(t *testing.T) {
	a := ring.New(64)
	b := ring.New(64)
	out := ring.New(64)
	m := New(out, 64)
	ha := m.AddInput("a", a, 0.5, false)
	hb := m.AddInput("b", b, 0.25, false)
	_ = ha
	_ = hb

	a.PushSlice(constFill(16, 1.0))
	b.PushSlice(constFill(16, 1.0))

	n := m.MixOnce()
	if n != 16 {
		t.Fatalf("expected 16, got %d", n)
	}
	dst := make([]float32, 16)
	out.PopSlice(dst)
	for i, v := range dst {
		if math.Abs(float64(v)-0.75) > 1e-6 {
			t.Fatalf("index %d: expected 0.75, got %v", i, v)
		}
	}
}

func TestMutedDrainsAndZeros(t *testing.T) {
	in := ring.New(64)
	out := ring.New(64)
	m := New(out, 64)
	h := m.AddInput("a", in, 1.0, true)
	_ = h

	in.PushSlice(constFill(32, 1.0))
	n := m.MixOnce()
	if n != 32 {
		t.Fatalf("expected 32 returned, got %d", n)
	}
	dst := make([]float32, 32)
	out.PopSlice(dst)
	for i, v := range dst {
		if v != 0 {
			t.Fatalf("index %d: expected 0.0, got %v", i, v)
		}
	}
	if in.Len() != 0 {
		t.Fatalf("expected input ring drained, len=%d", in.Len())
	}
}

func TestPartialRead(t *testing.T) {
	a := ring.New(256)
	b := ring.New(256)
	out := ring.New(256)
	m := New(out, 256)
	m.AddInput("a", a, 1.0, false)
	m.AddInput("b", b, 1.0, false)

	a.PushSlice(constFill(64, 0.2))
	b.PushSlice(constFill(128, 0.3))

	n := m.MixOnce()
	if n != 128 {
		t.Fatalf("expected 128, got %d", n)
	}
	dst := make([]float32, 128)
	out.PopSlice(dst)
	for i := 0; i < 64; i++ {
		if math.Abs(float64(dst[i])-0.5) > 1e-6 {
			t.Fatalf("index %d: expected 0.5, got %v", i, dst[i])
		}
	}
	for i := 64; i < 128; i++ {
		if math.Abs(float64(dst[i])-0.3) > 1e-6 {
			t.Fatalf("index %d: expected 0.3, got %v", i, dst[i])
		}
	}
}

func TestOneMutedOneActive(t *testing.T) {
	a := ring.New(64)
	b := ring.New(64)
	out := ring.New(64)
	m := New(out, 64)
	m.AddInput("a", a, 1.0, true)
	m.AddInput("b", b, 1.0, false)

	a.PushSlice(constFill(8, 1.0))
	b.PushSlice(constFill(8, 0.4))

	m.MixOnce()
	dst := make([]float32, 8)
	out.PopSlice(dst)
	for i, v := range dst {
		if math.Abs(float64(v)-0.4) > 1e-6 {
			t.Fatalf("index %d: expected 0.4 (muted input contributes 0), got %v", i, v)
		}
	}
}

func TestEmptyInputContributesZero(t *testing.T) {
	a := ring.New(64)
	b := ring.New(64)
	out := ring.New(64)
	m := New(out, 64)
	m.AddInput("a", a, 1.0, false)
	m.AddInput("b", b, 1.0, false)

	b.PushSlice(constFill(10, 1.0))
	n := m.MixOnce()
	if n != 10 {
		t.Fatalf("expected 10, got %d", n)
	}
}

func TestThreeInputsSummed(t *testing.T) {
	a := ring.New(64)
	b := ring.New(64)
	c := ring.New(64)
	out := ring.New(64)
	m := New(out, 64)
	m.AddInput("a", a, 1.0, false)
	m.AddInput("b", b, 1.0, false)
	m.AddInput("c", c, 1.0, false)

	a.PushSlice(constFill(4, 0.1))
	b.PushSlice(constFill(4, 0.2))
	c.PushSlice(constFill(4, 0.3))

	m.MixOnce()
	dst := make([]float32, 4)
	out.PopSlice(dst)
	for i, v := range dst {
		if math.Abs(float64(v)-0.6) > 1e-5 {
			t.Fatalf("index %d: expected ~0.6, got %v", i, v)
		}
	}
}

func TestOutputBufferFullLimitsWriteCount(t *testing.T) {
	in := ring.New(64)
	out := ring.New(8) // smaller than mix_block_size
	m := New(out, 64)
	m.AddInput("a", in, 1.0, false)
	in.PushSlice(constFill(64, 1.0))

	n := m.MixOnce()
	if n != 8 {
		t.Fatalf("expected output cap to limit write to 8, got %d", n)
	}
}

func TestAllInputsEmptyWritesNothing(t *testing.T) {
	a := ring.New(64)
	b := ring.New(64)
	out := ring.New(64)
	m := New(out, 64)
	m.AddInput("a", a, 1.0, false)
	m.AddInput("b", b, 1.0, false)

	if n := m.MixOnce(); n != 0 {
		t.Fatalf("expected 0, got %d", n)
	}
}

func TestRuntimeVolumeChangeMidStream(t *testing.T) {
	in := ring.New(64)
	out := ring.New(64)
	m := New(out, 64)
	h := m.AddInput("a", in, 1.0, false)

	in.PushSlice(constFill(4, 1.0))
	m.MixOnce()
	dst := make([]float32, 4)
	out.PopSlice(dst)
	if dst[0] != 1.0 {
		t.Fatalf("expected 1.0 before change, got %v", dst[0])
	}

	h.SetVolume(0.1)
	in.PushSlice(constFill(4, 1.0))
	m.MixOnce()
	out.PopSlice(dst)
	if math.Abs(float64(dst[0])-0.1) > 1e-6 {
		t.Fatalf("expected 0.1 after change, got %v", dst[0])
	}
}

func TestRuntimeMuteToggleMidStream(t *testing.T) {
	in := ring.New(64)
	out := ring.New(64)
	m := New(out, 64)
	h := m.AddInput("a", in, 1.0, false)

	h.SetMuted(true)
	in.PushSlice(constFill(4, 1.0))
	m.MixOnce()
	dst := make([]float32, 4)
	out.PopSlice(dst)
	if dst[0] != 0 {
		t.Fatalf("expected 0 while muted, got %v", dst[0])
	}

	h.SetMuted(false)
	in.PushSlice(constFill(4, 1.0))
	m.MixOnce()
	out.PopSlice(dst)
	if dst[0] != 1.0 {
		t.Fatalf("expected 1.0 after unmute, got %v", dst[0])
	}
}

func TestMuteUnmuteIsNoOpForIdenticalInputs(t *testing.T) {
	in := ring.New(64)
	out := ring.New(64)
	m := New(out, 64)
	h := m.AddInput("a", in, 1.0, false)
	h.SetMuted(true)
	h.SetMuted(false)

	in.PushSlice(constFill(4, 0.7))
	m.MixOnce()
	dst := make([]float32, 4)
	out.PopSlice(dst)
	if dst[0] != 0.7 {
		t.Fatalf("expected 0.7, got %v", dst[0])
	}
}

func TestMixerRunStopsOnFlag(t *testing.T) {
	out := ring.New(64)
	m := New(out, 64)
	m.AddInput("a", ring.New(64), 1.0, false)

	h := m.Start(time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	h.Stop()
	// Stop must return promptly; a second call must not block or panic.
	h.Stop()
}

func TestMixerThreadProcessesData(t *testing.T) {
	in := ring.New(4096)
	out := ring.New(4096)
	m := New(out, 256)
	m.AddInput("a", in, 1.0, false)

	h := m.Start(time.Millisecond)
	in.PushSlice(constFill(100, 0.5))
	deadline := time.After(time.Second)
	for out.Len() < 100 {
		select {
		case <-deadline:
			h.Stop()
			t.Fatal("timed out waiting for mixer thread to process data")
		case <-time.After(2 * time.Millisecond):
		}
	}
	h.Stop()
}

func TestHandleTokenIsUniquePerStart(t *testing.T) {
	m1 := New(ring.New(64), 64)
	m2 := New(ring.New(64), 64)

	h1 := m1.Start(time.Millisecond)
	h2 := m2.Start(time.Millisecond)
	defer h1.Stop()
	defer h2.Stop()

	if h1.Token() == h2.Token() {
		t.Fatal("expected distinct join tokens across mixer starts")
	}
	var zero [16]byte
	if h1.Token() == zero {
		t.Fatal("expected non-zero join token")
	}
}
