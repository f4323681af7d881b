package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig(t *testing.T) AppConfig {
	cfg, err := FromTOMLString(`
[output]
device_name = "speakers"
play_mixed_input = true

[[input]]
id = "mic1"
device_name = "USB Mic"
volume = 0.8
muted = false
`)
	require.NoError(t, err)
	return cfg
}

func TestConfigDiffVolumeChange(t *testing.T) {
	old := baseConfig(t)
	newCfg, err := FromTOMLString(`
[output]
device_name = "speakers"
play_mixed_input = true

[[input]]
id = "mic1"
device_name = "USB Mic"
volume = 0.5
muted = false
`)
	require.NoError(t, err)

	diff := DiffConfigs(old, newCfg)
	assert.Equal(t, []VolumeChange{{InputID: "mic1", Volume: 0.5}}, diff.VolumeChanges)
	assert.Empty(t, diff.MuteChanges)
	assert.Empty(t, diff.NonReloadable)
}

func TestConfigDiffMuteChange(t *testing.T) {
	old := baseConfig(t)
	newCfg, err := FromTOMLString(`
[output]
device_name = "speakers"
play_mixed_input = true

[[input]]
id = "mic1"
device_name = "USB Mic"
volume = 0.8
muted = true
`)
	require.NoError(t, err)

	diff := DiffConfigs(old, newCfg)
	assert.Empty(t, diff.VolumeChanges)
	assert.Equal(t, []MuteChange{{InputID: "mic1", Muted: true}}, diff.MuteChanges)
}

func TestConfigDiffEnabledChange(t *testing.T) {
	old := baseConfig(t)
	newCfg, err := FromTOMLString(`
[output]
device_name = "speakers"
play_mixed_input = true

[[input]]
id = "mic1"
device_name = "USB Mic"
volume = 0.8
muted = false
enabled = false
`)
	require.NoError(t, err)

	diff := DiffConfigs(old, newCfg)
	assert.Equal(t, []EnabledChange{{InputID: "mic1", Enabled: false}}, diff.EnabledChanges)
}

func TestConfigDiffNoChange(t *testing.T) {
	old := baseConfig(t)
	newCfg := baseConfig(t)
	diff := DiffConfigs(old, newCfg)
	assert.True(t, diff.IsEmpty())
}

func TestConfigDiffIgnoresNewInputNotInOld(t *testing.T) {
	old := baseConfig(t)
	newCfg, err := FromTOMLString(`
[output]
device_name = "speakers"
play_mixed_input = true

[[input]]
id = "mic1"
device_name = "USB Mic"
volume = 0.8
muted = false

[[input]]
id = "mic2"
device_name = "Other Mic"
volume = 0.3
`)
	require.NoError(t, err)

	diff := DiffConfigs(old, newCfg)
	assert.True(t, diff.IsEmpty(), "a brand-new input must not produce a diff entry")
}

func TestConfigDiffDeviceChangeIsNonReloadable(t *testing.T) {
	old := baseConfig(t)
	newCfg, err := FromTOMLString(`
[output]
device_name = "speakers"
play_mixed_input = true

[[input]]
id = "mic1"
device_name = "New Device"
volume = 0.8
muted = false
`)
	require.NoError(t, err)

	diff := DiffConfigs(old, newCfg)
	assert.Empty(t, diff.VolumeChanges)
	require.Len(t, diff.NonReloadable, 1)
	assert.Contains(t, diff.NonReloadable[0], "device changed")
}

func TestConfigDiffPlayMixedChange(t *testing.T) {
	old := baseConfig(t)
	newCfg, err := FromTOMLString(`
[output]
device_name = "speakers"
play_mixed_input = false

[[input]]
id = "mic1"
device_name = "USB Mic"
volume = 0.8
muted = false
`)
	require.NoError(t, err)

	diff := DiffConfigs(old, newCfg)
	require.NotNil(t, diff.PlayMixedChange)
	assert.False(t, *diff.PlayMixedChange)
}

func TestConfigDiffSampleRateAndBufferSizeNonReloadable(t *testing.T) {
	old := baseConfig(t)
	newCfg, err := FromTOMLString(`
[general]
sample_rate = 44100
buffer_size = 2048

[output]
device_name = "speakers"
play_mixed_input = true

[[input]]
id = "mic1"
device_name = "USB Mic"
volume = 0.8
muted = false
`)
	require.NoError(t, err)

	diff := DiffConfigs(old, newCfg)
	assert.Len(t, diff.NonReloadable, 2)
}

func TestConfigDiffAsrEngineChangeRequiresBothPresent(t *testing.T) {
	old, err := FromTOMLString(`
[asr]
engine = "null"
`)
	require.NoError(t, err)
	newCfg, err := FromTOMLString(`
[asr]
engine = "whisper"

[asr.whisper]
model_path = "./model.bin"
`)
	require.NoError(t, err)

	diff := DiffConfigs(old, newCfg)
	require.Len(t, diff.NonReloadable, 1)
	assert.Contains(t, diff.NonReloadable[0], "ASR engine changed")
}

func TestConfigDiffAsrEngineChangeSkippedWhenOnlyOneConfigHasAsr(t *testing.T) {
	old := baseConfig(t)
	newCfg, err := FromTOMLString(`
[asr]
engine = "whisper"

[output]
device_name = "speakers"
play_mixed_input = true

[[input]]
id = "mic1"
device_name = "USB Mic"
volume = 0.8
muted = false
`)
	require.NoError(t, err)

	diff := DiffConfigs(old, newCfg)
	for _, msg := range diff.NonReloadable {
		assert.NotContains(t, msg, "ASR engine")
	}
}
