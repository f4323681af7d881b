// Package asr implements the ASR plane: the engine capability interface,
// a name→factory registry, the bundled null and whisper-stub engines, and
// the AsrHost that fans audio into per-input engine workers.
package asr

import (
	"context"

	"github.com/m96-chan/ASRMixingRouter/internal/core"
)

// Engine is the capability set every ASR engine implements.
type Engine interface {
	// Name returns the engine's registry key.
	Name() string
	// Initialize performs one-time setup; may allocate, may fail. Called
	// once, after SetResultSender.
	Initialize(ctx context.Context, config map[string]any) error
	// FeedAudio is called for each tap chunk. It must not block the
	// caller's worker for an unbounded time.
	FeedAudio(ctx context.Context, chunk core.AudioChunk) error
	// SetResultSender is called once before Initialize.
	SetResultSender(ch chan<- core.RecognitionResult)
	// Shutdown is idempotent.
	Shutdown(ctx context.Context) error
}
