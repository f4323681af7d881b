// Package verr defines the error kinds used across the router: config,
// audio, ASR and destination errors. Each kind mirrors one of the source's
// thiserror enums, translated into a Go error type with a closed Kind and a
// display string matching the original's message templates.
package verr

import "fmt"

// ConfigKind enumerates ConfigError variants.
type ConfigKind int

const (
	ConfigFileRead ConfigKind = iota
	ConfigTomlParse
	ConfigEnvVarNotFound
)

// ConfigError is fatal at startup; during hot-reload it is logged and the
// current config is retained.
type ConfigError struct {
	Kind ConfigKind
	Msg  string
	Err  error
}

func (e *ConfigError) Error() string {
	switch e.Kind {
	case ConfigFileRead:
		return fmt.Sprintf("failed to read config file: %s", e.Msg)
	case ConfigTomlParse:
		return fmt.Sprintf("failed to parse config: %s", e.Msg)
	case ConfigEnvVarNotFound:
		return fmt.Sprintf("environment variable not found: %s", e.Msg)
	default:
		return e.Msg
	}
}

func (e *ConfigError) Unwrap() error { return e.Err }

func NewConfigFileRead(err error) *ConfigError {
	return &ConfigError{Kind: ConfigFileRead, Msg: err.Error(), Err: err}
}

func NewConfigTomlParse(err error) *ConfigError {
	return &ConfigError{Kind: ConfigTomlParse, Msg: err.Error(), Err: err}
}

func NewConfigEnvVarNotFound(name string) *ConfigError {
	return &ConfigError{Kind: ConfigEnvVarNotFound, Msg: name}
}

// AudioKind enumerates AudioError variants.
type AudioKind int

const (
	AudioDeviceNotFound AudioKind = iota
	AudioDeviceEnumeration
	AudioStreamBuild
	AudioStreamError
)

// AudioError. DeviceNotFound at startup is fatal; StreamError at runtime
// flips the owning handle's status to Error and is surfaced as a warning —
// the process continues.
type AudioError struct {
	Kind AudioKind
	Msg  string
}

func (e *AudioError) Error() string {
	switch e.Kind {
	case AudioDeviceNotFound:
		return fmt.Sprintf("audio device not found: %s", e.Msg)
	case AudioDeviceEnumeration:
		return fmt.Sprintf("audio device enumeration failed: %s", e.Msg)
	case AudioStreamBuild:
		return fmt.Sprintf("failed to build audio stream: %s", e.Msg)
	case AudioStreamError:
		return fmt.Sprintf("audio stream error: %s", e.Msg)
	default:
		return e.Msg
	}
}

func NewAudioDeviceNotFound(msg string) *AudioError {
	return &AudioError{Kind: AudioDeviceNotFound, Msg: msg}
}

func NewAudioDeviceEnumeration(msg string) *AudioError {
	return &AudioError{Kind: AudioDeviceEnumeration, Msg: msg}
}

func NewAudioStreamBuild(msg string) *AudioError {
	return &AudioError{Kind: AudioStreamBuild, Msg: msg}
}

func NewAudioStreamError(msg string) *AudioError {
	return &AudioError{Kind: AudioStreamError, Msg: msg}
}

// AsrKind enumerates AsrError variants.
type AsrKind int

const (
	AsrInitializationFailed AsrKind = iota
	AsrProcessingFailed
	AsrEngineNotFound
)

// AsrError. InitializationFailed and EngineNotFound are fatal per-input at
// add time; ProcessingFailed is logged and the worker continues.
type AsrError struct {
	Kind AsrKind
	Msg  string
}

func (e *AsrError) Error() string {
	switch e.Kind {
	case AsrInitializationFailed:
		return fmt.Sprintf("ASR initialization failed: %s", e.Msg)
	case AsrProcessingFailed:
		return fmt.Sprintf("ASR processing failed: %s", e.Msg)
	case AsrEngineNotFound:
		return fmt.Sprintf("ASR engine not found: %s", e.Msg)
	default:
		return e.Msg
	}
}

func NewAsrInitializationFailed(msg string) *AsrError {
	return &AsrError{Kind: AsrInitializationFailed, Msg: msg}
}

func NewAsrProcessingFailed(msg string) *AsrError {
	return &AsrError{Kind: AsrProcessingFailed, Msg: msg}
}

func NewAsrEngineNotFound(name string) *AsrError {
	return &AsrError{Kind: AsrEngineNotFound, Msg: name}
}

// DestinationKind enumerates DestinationError variants.
type DestinationKind int

const (
	DestinationInitializationFailed DestinationKind = iota
	DestinationSendFailed
	DestinationNotFound
	DestinationConnectionLost
)

// DestinationError. InitializationFailed/NotFound are fatal for that route;
// SendFailed is logged per message and the router continues;
// ConnectionLost is logged and flips is_healthy to false.
type DestinationError struct {
	Kind DestinationKind
	Msg  string
}

func (e *DestinationError) Error() string {
	switch e.Kind {
	case DestinationInitializationFailed:
		return fmt.Sprintf("destination initialization failed: %s", e.Msg)
	case DestinationSendFailed:
		return fmt.Sprintf("destination send failed: %s", e.Msg)
	case DestinationNotFound:
		return fmt.Sprintf("destination plugin not found: %s", e.Msg)
	case DestinationConnectionLost:
		return fmt.Sprintf("destination connection lost: %s", e.Msg)
	default:
		return e.Msg
	}
}

func NewDestinationInitializationFailed(msg string) *DestinationError {
	return &DestinationError{Kind: DestinationInitializationFailed, Msg: msg}
}

func NewDestinationSendFailed(msg string) *DestinationError {
	return &DestinationError{Kind: DestinationSendFailed, Msg: msg}
}

func NewDestinationNotFound(name string) *DestinationError {
	return &DestinationError{Kind: DestinationNotFound, Msg: name}
}

func NewDestinationConnectionLost(msg string) *DestinationError {
	return &DestinationError{Kind: DestinationConnectionLost, Msg: msg}
}
