package config

import "fmt"

// VolumeChange is a reloadable per-input volume update.
type VolumeChange struct {
	InputID string
	Volume  float32
}

// MuteChange is a reloadable per-input mute toggle.
type MuteChange struct {
	InputID string
	Muted   bool
}

// EnabledChange is a reloadable per-input enable toggle.
type EnabledChange struct {
	InputID string
	Enabled bool
}

// Diff describes the runtime-safe and restart-requiring changes between
// two configs.
type Diff struct {
	VolumeChanges    []VolumeChange
	MuteChanges      []MuteChange
	EnabledChanges   []EnabledChange
	PlayMixedChange  *bool
	NonReloadable    []string
}

const volumeEpsilon = 1e-9

// DiffConfigs compares old and new and classifies every change as
// reloadable (applied live) or non-reloadable (surfaced as a warning,
// requires restart). Inputs present only in new (not found in old) never
// produce a diff entry — they are handled by the add-input path, not
// hot-reload.
func DiffConfigs(old, new AppConfig) Diff {
	var diff Diff

	if old.General.SampleRate != new.General.SampleRate {
		diff.NonReloadable = append(diff.NonReloadable, fmt.Sprintf(
			"sample_rate changed (%d → %d), requires restart", old.General.SampleRate, new.General.SampleRate))
	}
	if old.General.BufferSize != new.General.BufferSize {
		diff.NonReloadable = append(diff.NonReloadable, fmt.Sprintf(
			"buffer_size changed (%d → %d), requires restart", old.General.BufferSize, new.General.BufferSize))
	}
	if old.Output.DeviceName != new.Output.DeviceName {
		diff.NonReloadable = append(diff.NonReloadable, fmt.Sprintf(
			"output device changed ('%s' → '%s'), requires restart", old.Output.DeviceName, new.Output.DeviceName))
	}
	if old.Output.PlayMixedInput != new.Output.PlayMixedInput {
		v := new.Output.PlayMixedInput
		diff.PlayMixedChange = &v
	}

	oldInputs := make(map[string]InputConfig, len(old.Input))
	for _, in := range old.Input {
		oldInputs[in.ID] = in
	}

	for _, newInput := range new.Input {
		oldInput, ok := oldInputs[newInput.ID]
		if !ok {
			continue
		}

		if absFloat32(oldInput.Volume-newInput.Volume) > volumeEpsilon {
			diff.VolumeChanges = append(diff.VolumeChanges, VolumeChange{InputID: newInput.ID, Volume: newInput.Volume})
		}
		if oldInput.Muted != newInput.Muted {
			diff.MuteChanges = append(diff.MuteChanges, MuteChange{InputID: newInput.ID, Muted: newInput.Muted})
		}
		if oldInput.Enabled != newInput.Enabled {
			diff.EnabledChanges = append(diff.EnabledChanges, EnabledChange{InputID: newInput.ID, Enabled: newInput.Enabled})
		}
		if oldInput.DeviceName != newInput.DeviceName {
			diff.NonReloadable = append(diff.NonReloadable, fmt.Sprintf(
				"input '%s' device changed ('%s' → '%s'), requires restart", newInput.ID, oldInput.DeviceName, newInput.DeviceName))
		}
	}

	if old.Asr != nil && new.Asr != nil && old.Asr.Engine != new.Asr.Engine {
		diff.NonReloadable = append(diff.NonReloadable, fmt.Sprintf(
			"ASR engine changed ('%s' → '%s'), requires restart", old.Asr.Engine, new.Asr.Engine))
	}

	return diff
}

func absFloat32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// IsEmpty reports whether the diff carries no changes at all.
func (d Diff) IsEmpty() bool {
	return len(d.VolumeChanges) == 0 && len(d.MuteChanges) == 0 && len(d.EnabledChanges) == 0 &&
		d.PlayMixedChange == nil && len(d.NonReloadable) == 0
}
