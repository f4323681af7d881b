// Package mixer implements the Mixer: the periodic drain/sum/gain/mute
// cycle that sums all input rings into the output ring, and the dedicated
// OS thread that drives it.
package mixer

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/m96-chan/ASRMixingRouter/internal/control"
	"github.com/m96-chan/ASRMixingRouter/internal/logging"
	"github.com/m96-chan/ASRMixingRouter/internal/ring"
)

var log = logging.For("mixer")

// mixerInput pairs one input's consumer half with its shared controls.
type mixerInput struct {
	consumer *ring.Buffer
	controls *control.InputControls
}

// Mixer owns the output producer and the set of inputs summed into it.
// Inputs may be added only before Start.
type Mixer struct {
	output       *ring.Buffer
	mixBlockSize int
	mixBuffer    []float32
	readBuffer   []float32
	inputs       []mixerInput
	started      bool
}

// New constructs a Mixer writing into output, summing up to mixBlockSize
// samples per cycle.
func New(output *ring.Buffer, mixBlockSize int) *Mixer {
	return &Mixer{
		output:       output,
		mixBlockSize: mixBlockSize,
		mixBuffer:    make([]float32, mixBlockSize),
		readBuffer:   make([]float32, mixBlockSize),
	}
}

// AddInput registers consumer as a new mixer input and returns a cloneable
// InputHandle sharing its controls by reference. Must be called before
// Start.
func (m *Mixer) AddInput(id string, consumer *ring.Buffer, initialVolume float32, initialMuted bool) control.InputHandle {
	if m.started {
		panic("mixer: AddInput called after Start")
	}
	handle := control.NewInputHandle(id, initialVolume, initialMuted)
	m.inputs = append(m.inputs, mixerInput{consumer: consumer, controls: handle.Controls()})
	return handle
}

// MixOnce performs exactly one mix cycle and returns the number of samples
// written to the output ring.
func (m *Mixer) MixOnce() int {
	if len(m.inputs) == 0 {
		return 0
	}

	for i := range m.mixBuffer {
		m.mixBuffer[i] = 0
	}

	maxRead := 0
	for _, in := range m.inputs {
		for i := range m.readBuffer {
			m.readBuffer[i] = 0
		}
		n := in.consumer.PopSlice(m.readBuffer)
		if n > maxRead {
			maxRead = n
		}
		if !in.controls.Muted() {
			volume := in.controls.Volume()
			for i := 0; i < n; i++ {
				m.mixBuffer[i] += m.readBuffer[i] * volume
			}
		}
	}

	if maxRead == 0 {
		return 0
	}
	return m.output.PushSlice(m.mixBuffer[:maxRead])
}

// run loops calling MixOnce then sleeping interval, exiting once cancel
// observes true.
func (m *Mixer) run(cancel *atomic.Bool, interval time.Duration) {
	for !cancel.Load() {
		m.MixOnce()
		time.Sleep(interval)
	}
}

// Handle is returned by Start for cooperative shutdown. It must not be used
// to add further inputs.
type Handle struct {
	cancel  *atomic.Bool
	done    chan struct{}
	stopped sync.Once
	token   uuid.UUID
}

// Token returns the join-token identifying this mixer thread's run, used to
// correlate its start/stop log lines across the cooperative shutdown
// sequence.
func (h *Handle) Token() uuid.UUID { return h.token }

// Start moves the mixer onto a dedicated OS thread running run(interval)
// and returns a Handle for shutdown. Exactly one mix thread may exist per
// Mixer.
func (m *Mixer) Start(interval time.Duration) *Handle {
	m.started = true
	cancel := &atomic.Bool{}
	done := make(chan struct{})
	token := uuid.New()

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				log.Error("mixer thread panicked", "join_token", token, "recover", r)
			}
		}()
		log.Debug("mixer thread started", "join_token", token)
		m.run(cancel, interval)
		log.Debug("mixer thread exiting", "join_token", token)
	}()

	return &Handle{cancel: cancel, done: done, token: token}
}

// Stop sets the cancellation flag and waits for the thread to observe it at
// the next cycle boundary. Safe to call more than once; never blocks
// indefinitely because the thread checks the flag every interval, and never
// panics if the thread has already exited.
func (h *Handle) Stop() {
	h.stopped.Do(func() {
		h.cancel.Store(true)
		<-h.done
	})
}
