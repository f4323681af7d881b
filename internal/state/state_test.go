package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouterStateDefault(t *testing.T) {
	s := NewRouterState()
	assert.Empty(t, s.Inputs)
	assert.False(t, s.IsRunning)
	assert.Empty(t, s.LatestRecognitions)
	assert.Equal(t, NewOutputState(), s.Output)
}

func TestInputStateZeroValue(t *testing.T) {
	var in InputState
	assert.Equal(t, float32(0), in.Volume)
	assert.False(t, in.Enabled)
	assert.False(t, in.Muted)
	assert.Equal(t, float32(0), in.PeakLevel)
	assert.Empty(t, in.ID)
	assert.Empty(t, in.DeviceName)
	assert.Equal(t, InputStatusOk, in.Status)
}

func TestOutputStateDefaultsNotZeroValue(t *testing.T) {
	out := NewOutputState()
	assert.Equal(t, "default", out.DeviceName)
	assert.True(t, out.PlayMixedInput)
}

func TestRouterStateHasWarnings(t *testing.T) {
	assert.Empty(t, NewRouterState().Warnings)
}

func TestUiCommandConstructors(t *testing.T) {
	cmd := SetVolume("mic1", 0.75)
	assert.Equal(t, UiCommandSetVolume, cmd.Kind)
	assert.Equal(t, "mic1", cmd.InputID)
	assert.InDelta(t, 0.75, cmd.Volume, 1e-6)

	assert.Equal(t, UiCommandQuit, Quit().Kind)
}
