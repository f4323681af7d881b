// Package state defines the router's TUI-facing snapshot types and the
// commands the UI sends back to the composition root.
package state

// InputStatus is the health status of a single input or output device.
type InputStatus int

const (
	InputStatusOk InputStatus = iota
	InputStatusError
	InputStatusDisabled
)

func (s InputStatus) String() string {
	switch s {
	case InputStatusOk:
		return "ok"
	case InputStatusError:
		return "error"
	case InputStatusDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// InputState is one audio input's display state.
type InputState struct {
	ID         string
	DeviceName string
	Enabled    bool
	Volume     float32
	Muted      bool
	PeakLevel  float32
	Status     InputStatus
}

// OutputState is the mixed-audio output's display state. Its zero value
// is not meaningful — use NewOutputState for the documented defaults.
type OutputState struct {
	DeviceName     string
	PlayMixedInput bool
}

// NewOutputState returns the default OutputState ("default" device,
// playback enabled), matching the source's custom Default impl.
func NewOutputState() OutputState {
	return OutputState{DeviceName: "default", PlayMixedInput: true}
}

// RouterState is the aggregate snapshot broadcast to the UI.
type RouterState struct {
	Inputs              []InputState
	Output              OutputState
	LatestRecognitions  []string
	Warnings            []string
	IsRunning           bool
}

// NewRouterState returns an empty, not-yet-running snapshot.
func NewRouterState() RouterState {
	return RouterState{Output: NewOutputState()}
}

// UiCommandKind discriminates the UiCommand variants.
type UiCommandKind int

const (
	UiCommandSetVolume UiCommandKind = iota
	UiCommandSetMuted
	UiCommandSetEnabled
	UiCommandSetPlayMixedInput
	UiCommandQuit
)

// UiCommand is sent from the UI to the composition root. Only the fields
// relevant to Kind are populated.
type UiCommand struct {
	Kind    UiCommandKind
	InputID string
	Volume  float32
	Muted   bool
	Enabled bool
	Playing bool
}

func SetVolume(inputID string, volume float32) UiCommand {
	return UiCommand{Kind: UiCommandSetVolume, InputID: inputID, Volume: volume}
}

func SetMuted(inputID string, muted bool) UiCommand {
	return UiCommand{Kind: UiCommandSetMuted, InputID: inputID, Muted: muted}
}

func SetEnabled(inputID string, enabled bool) UiCommand {
	return UiCommand{Kind: UiCommandSetEnabled, InputID: inputID, Enabled: enabled}
}

func SetPlayMixedInput(playing bool) UiCommand {
	return UiCommand{Kind: UiCommandSetPlayMixedInput, Playing: playing}
}

func Quit() UiCommand {
	return UiCommand{Kind: UiCommandQuit}
}
