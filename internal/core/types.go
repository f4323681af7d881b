// Package core holds the plain data types shared across the realtime audio
// plane, the ASR plane and the destination plane: AudioChunk,
// RecognitionResult, TextMetadata and Route.
package core

// AudioChunk is a forked copy of captured samples handed to the ASR plane.
// Immutable after construction. One per driver callback on the tap path; it
// never traverses the realtime ring.
//
// SampleRate and Channels are the values the owning CaptureNode was
// configured with, not anything queried from the driver at runtime. This
// reproduces the source's behavior; see DESIGN.md's Open Question note.
type AudioChunk struct {
	Samples    []float32
	SampleRate uint32
	Channels   uint16
}

// RecognitionResult is one utterance (partial or final) from an ASR engine.
type RecognitionResult struct {
	Text      string
	InputID   string
	Timestamp float64
	IsFinal   bool
}

// TextMetadata decorates a recognition on the way to a destination.
type TextMetadata struct {
	InputID string
	Prefix  string
}

// Route binds one input's final recognitions to one destination instance.
type Route struct {
	InputID      string
	PluginName   string
	Prefix       string
	PluginConfig map[string]any
}
