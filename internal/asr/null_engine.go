package asr

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/m96-chan/ASRMixingRouter/internal/core"
)

// NullEngine is the always-available default engine: it performs no real
// recognition. For every fed chunk of N samples it emits a final result of
// the form "[null] N samples" — useful for exercising the full pipeline
// without a model.
type NullEngine struct {
	feedCount atomic.Int64

	mu     sync.Mutex
	result chan<- core.RecognitionResult
}

// NewNullEngine constructs an unconfigured NullEngine.
func NewNullEngine() *NullEngine { return &NullEngine{} }

func (e *NullEngine) Name() string { return "null" }

func (e *NullEngine) Initialize(ctx context.Context, config map[string]any) error {
	return nil
}

func (e *NullEngine) SetResultSender(ch chan<- core.RecognitionResult) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.result = ch
}

func (e *NullEngine) FeedAudio(ctx context.Context, chunk core.AudioChunk) error {
	e.feedCount.Add(1)

	result := core.RecognitionResult{
		Text:    fmt.Sprintf("[null] %d samples", len(chunk.Samples)),
		InputID: "", // the host stamps this on the way out
		IsFinal: true,
	}

	e.mu.Lock()
	ch := e.result
	e.mu.Unlock()
	if ch != nil {
		select {
		case ch <- result:
		case <-ctx.Done():
		}
	}
	return nil
}

func (e *NullEngine) Shutdown(ctx context.Context) error { return nil }
