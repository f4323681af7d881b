// Package config loads the router's TOML configuration, tracks reloadable
// vs. non-reloadable changes between revisions, and watches the config
// file for hot-reload.
package config

import "github.com/pelletier/go-toml/v2"

// AppConfig is the full router configuration, as parsed from TOML.
type AppConfig struct {
	General      GeneralConfig  `toml:"general"`
	Output       OutputConfig   `toml:"output"`
	Input        []InputConfig  `toml:"input"`
	Asr          *AsrConfig     `toml:"asr"`
	Destinations map[string]any `toml:"destinations"`
}

// GeneralConfig holds process-wide settings.
type GeneralConfig struct {
	LogLevel   string `toml:"log_level"`
	SampleRate uint32 `toml:"sample_rate"`
	BufferSize uint32 `toml:"buffer_size"`
}

// OutputConfig configures the single mixed-audio output device.
type OutputConfig struct {
	DeviceName     string `toml:"device_name"`
	PlayMixedInput bool   `toml:"play_mixed_input"`
}

// InputConfig configures one capture input and its destination routes.
type InputConfig struct {
	ID           string                    `toml:"id"`
	DeviceName   string                    `toml:"device_name"`
	Enabled      bool                      `toml:"enabled"`
	Volume       float32                   `toml:"volume"`
	Muted        bool                      `toml:"muted"`
	Destinations []DestinationRouteConfig  `toml:"destinations"`
}

// DestinationRouteConfig configures one destination route for an input.
// Extra retains every TOML key besides plugin/prefix — the Rust source's
// #[serde(flatten)] equivalent — so a plugin can read its own config keys
// (e.g. "path" for file, "token"/"channel_id" for discord) without the
// shared struct needing to know about them.
type DestinationRouteConfig struct {
	Plugin string         `toml:"plugin"`
	Prefix string         `toml:"prefix"`
	Extra  map[string]any `toml:"-"`
}

// AsrConfig selects and configures the ASR engine used by an input.
type AsrConfig struct {
	Engine  string         `toml:"engine"`
	Whisper *WhisperConfig `toml:"whisper"`
}

// WhisperConfig configures the whisper engine stub.
type WhisperConfig struct {
	ModelPath string `toml:"model_path"`
	Language  string `toml:"language"`
}

func defaultGeneral() GeneralConfig {
	return GeneralConfig{LogLevel: "info", SampleRate: 48000, BufferSize: 1024}
}

func defaultOutput() OutputConfig {
	return OutputConfig{DeviceName: "default", PlayMixedInput: true}
}

func defaultInput(id string) InputConfig {
	return InputConfig{ID: id, DeviceName: "default", Enabled: true, Volume: 1.0}
}

const defaultWhisperLanguage = "ja"

// applyDefaults fills in zero-valued fields with their documented defaults,
// mirroring the serde(default = "...") attributes on the original struct.
func applyDefaults(raw rawAppConfig) AppConfig {
	cfg := AppConfig{General: defaultGeneral(), Output: defaultOutput()}

	if raw.General != nil {
		if raw.General.LogLevel != "" {
			cfg.General.LogLevel = raw.General.LogLevel
		}
		if raw.General.SampleRate != 0 {
			cfg.General.SampleRate = raw.General.SampleRate
		}
		if raw.General.BufferSize != 0 {
			cfg.General.BufferSize = raw.General.BufferSize
		}
	}

	if raw.Output != nil {
		if raw.Output.DeviceName != "" {
			cfg.Output.DeviceName = raw.Output.DeviceName
		}
		cfg.Output.PlayMixedInput = raw.Output.playMixedInputOrDefault()
	}

	cfg.Input = make([]InputConfig, len(raw.Input))
	for i, in := range raw.Input {
		input := defaultInput(in.ID)
		if in.DeviceName != "" {
			input.DeviceName = in.DeviceName
		}
		input.Enabled = in.enabledOrDefault()
		if in.Volume != nil {
			input.Volume = *in.Volume
		}
		input.Muted = in.Muted
		input.Destinations = make([]DestinationRouteConfig, len(in.Destinations))
		for j, d := range in.Destinations {
			input.Destinations[j] = d.resolve()
		}
		cfg.Input[i] = input
	}

	if raw.Asr != nil {
		asr := &AsrConfig{Engine: raw.Asr.Engine}
		if raw.Asr.Whisper != nil {
			language := raw.Asr.Whisper.Language
			if language == "" {
				language = defaultWhisperLanguage
			}
			asr.Whisper = &WhisperConfig{ModelPath: raw.Asr.Whisper.ModelPath, Language: language}
		}
		cfg.Asr = asr
	}

	cfg.Destinations = raw.Destinations
	return cfg
}

// rawAppConfig mirrors AppConfig but with pointer/any fields so presence
// can be distinguished from a zero value before defaults are applied —
// go-toml/v2 has no serde(default = "fn") equivalent to lean on.
type rawAppConfig struct {
	General      *rawGeneral      `toml:"general"`
	Output       *rawOutput       `toml:"output"`
	Input        []rawInput       `toml:"input"`
	Asr          *rawAsr          `toml:"asr"`
	Destinations map[string]any   `toml:"destinations"`
}

type rawGeneral struct {
	LogLevel   string `toml:"log_level"`
	SampleRate uint32 `toml:"sample_rate"`
	BufferSize uint32 `toml:"buffer_size"`
}

type rawOutput struct {
	DeviceName     string `toml:"device_name"`
	PlayMixedInput *bool  `toml:"play_mixed_input"`
}

func (o *rawOutput) playMixedInputOrDefault() bool {
	if o.PlayMixedInput == nil {
		return true
	}
	return *o.PlayMixedInput
}

type rawInput struct {
	ID           string          `toml:"id"`
	DeviceName   string          `toml:"device_name"`
	Enabled      *bool           `toml:"enabled"`
	Volume       *float32        `toml:"volume"`
	Muted        bool            `toml:"muted"`
	Destinations []rawDestRoute  `toml:"destinations"`
}

func (i *rawInput) enabledOrDefault() bool {
	if i.Enabled == nil {
		return true
	}
	return *i.Enabled
}

type rawDestRoute map[string]any

func (r rawDestRoute) resolve() DestinationRouteConfig {
	route := DestinationRouteConfig{Extra: make(map[string]any, len(r))}
	for k, v := range r {
		switch k {
		case "plugin":
			if s, ok := v.(string); ok {
				route.Plugin = s
			}
		case "prefix":
			if s, ok := v.(string); ok {
				route.Prefix = s
			}
		default:
			route.Extra[k] = v
		}
	}
	return route
}

type rawAsr struct {
	Engine  string        `toml:"engine"`
	Whisper *rawWhisper   `toml:"whisper"`
}

type rawWhisper struct {
	ModelPath string `toml:"model_path"`
	Language  string `toml:"language"`
}

// FromTOMLBytes parses raw (already env-interpolated) TOML bytes into a
// fully defaulted AppConfig.
func FromTOMLBytes(data []byte) (AppConfig, error) {
	var raw rawAppConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return AppConfig{}, err
	}
	return applyDefaults(raw), nil
}
