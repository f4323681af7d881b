// Package control implements the atomic-backed, reference-counted control
// records shared between the realtime audio path, the cooperative task
// pool, and the UI: InputControls/InputHandle, CaptureControls/CaptureHandle
// and OutputControls/OutputHandle. Every field is a sync/atomic value
// mutated only through atomic stores; it is advisory control state and is
// not used to synchronize audio frames.
package control

import (
	"math"
	"sync/atomic"
)

// Status mirrors the closed CaptureHandle/OutputHandle status enum.
type Status int32

const (
	StatusOk Status = iota
	StatusError
	StatusDisabled
)

func (s Status) String() string {
	switch s {
	case StatusOk:
		return "ok"
	case StatusError:
		return "error"
	case StatusDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// InputControls is the shared atomic record behind an input's mixer
// participation: volume and mute. Shared by the Mixer, the UI and
// config-reload.
type InputControls struct {
	id         string
	volumeBits atomic.Uint32
	muted      atomic.Bool
}

func newInputControls(id string, volume float32) *InputControls {
	c := &InputControls{id: id}
	c.volumeBits.Store(math.Float32bits(volume))
	return c
}

// Volume returns the current gain, unclamped (storage never clamps; only
// the Handle's setter does).
func (c *InputControls) Volume() float32 {
	return math.Float32frombits(c.volumeBits.Load())
}

func (c *InputControls) setVolumeRaw(v float32) {
	c.volumeBits.Store(math.Float32bits(v))
}

// Muted reports the current mute state.
func (c *InputControls) Muted() bool { return c.muted.Load() }

func (c *InputControls) setMuted(v bool) { c.muted.Store(v) }

// ID returns the input's stable identifier.
func (c *InputControls) ID() string { return c.id }

// InputHandle is a cloneable reference to a shared InputControls record.
// Cloning shares state: a write on one clone is observable on every other
// clone and on the Mixer's own copy.
type InputHandle struct {
	controls *InputControls
}

// NewInputHandle constructs a fresh InputControls record and wraps it.
// Used by the Mixer's AddInput.
func NewInputHandle(id string, initialVolume float32, initialMuted bool) InputHandle {
	c := newInputControls(id, initialVolume)
	c.setMuted(initialMuted)
	return InputHandle{controls: c}
}

// Controls exposes the underlying shared record, for components (like the
// Mixer) that need to read it every cycle without handle-level overhead.
func (h InputHandle) Controls() *InputControls { return h.controls }

// ID returns the input's stable identifier.
func (h InputHandle) ID() string { return h.controls.ID() }

// Volume returns the current gain.
func (h InputHandle) Volume() float32 { return h.controls.Volume() }

// SetVolume clamps negative inputs to 0.0; gain above 1.0 is allowed
// unclamped.
func (h InputHandle) SetVolume(v float32) {
	if v < 0 {
		v = 0
	}
	h.controls.setVolumeRaw(v)
}

// Muted reports the current mute state.
func (h InputHandle) Muted() bool { return h.controls.Muted() }

// SetMuted sets the mute state.
func (h InputHandle) SetMuted(v bool) { h.controls.setMuted(v) }

// CaptureControls backs a CaptureHandle: enabled flag plus stream status.
// Shared by the capture callback, the UI and config-reload.
type CaptureControls struct {
	id      string
	enabled atomic.Bool
	status  atomic.Int32
}

// CaptureHandle exposes id/enabled/status, all wait-free, to every owner of
// a clone.
type CaptureHandle struct {
	controls *CaptureControls
}

// NewCaptureHandle constructs a fresh CaptureControls record.
func NewCaptureHandle(id string, enabled bool) CaptureHandle {
	c := &CaptureControls{id: id}
	c.enabled.Store(enabled)
	if enabled {
		c.status.Store(int32(StatusOk))
	} else {
		c.status.Store(int32(StatusDisabled))
	}
	return CaptureHandle{controls: c}
}

// ID returns the input's stable identifier.
func (h CaptureHandle) ID() string { return h.controls.id }

// IsEnabled reports whether the capture callback should currently push
// samples.
func (h CaptureHandle) IsEnabled() bool { return h.controls.enabled.Load() }

// SetEnabled toggles capture. Disabling takes effect on the very next
// callback invocation: the callback discards its buffer entirely, including
// the tap copy — there is no drain-to-zero fade. Status tracks enabled
// unless a stream error has independently set it to Error.
func (h CaptureHandle) SetEnabled(v bool) {
	h.controls.enabled.Store(v)
	if !v {
		h.controls.status.Store(int32(StatusDisabled))
	} else if Status(h.controls.status.Load()) == StatusDisabled {
		h.controls.status.Store(int32(StatusOk))
	}
}

// Status returns the current capture status. Status takes precedence over
// the bare enabled flag in UI display: StatusError can be observed even
// while enabled is still true.
func (h CaptureHandle) Status() Status { return Status(h.controls.status.Load()) }

// SetStatus is fire-and-forget: observed only by the UI state broadcaster,
// never by the audio path itself.
func (h CaptureHandle) SetStatus(s Status) { h.controls.status.Store(int32(s)) }

// OutputControls backs an OutputHandle: playing flag plus stream status.
type OutputControls struct {
	playing atomic.Bool
	status  atomic.Int32
}

// OutputHandle exposes is_playing/set_playing/status, all wait-free.
type OutputHandle struct {
	controls *OutputControls
}

// NewOutputHandle constructs a fresh OutputControls record. Playback is
// disabled (playing=false) by default: the output callback fills silence
// until something explicitly enables it.
func NewOutputHandle() OutputHandle {
	c := &OutputControls{}
	c.status.Store(int32(StatusOk))
	return OutputHandle{controls: c}
}

// IsPlaying reports whether the output callback should currently drain the
// mixer's output ring. When false, the callback writes silence.
func (h OutputHandle) IsPlaying() bool { return h.controls.playing.Load() }

// SetPlaying toggles output. This is the reloadable `play_mixed_input`
// setting.
func (h OutputHandle) SetPlaying(v bool) { h.controls.playing.Store(v) }

// Status returns the current output stream status.
func (h OutputHandle) Status() Status { return Status(h.controls.status.Load()) }

// SetStatus is fire-and-forget, observed only by the UI broadcaster.
func (h OutputHandle) SetStatus(s Status) { h.controls.status.Store(int32(s)) }
