package pipeline

import (
	"context"
	"fmt"

	"github.com/m96-chan/ASRMixingRouter/internal/core"
	"github.com/m96-chan/ASRMixingRouter/internal/logging"
)

var forwarderLog = logging.For("pipeline:forwarder")

// Forwarder interposes between the ASR aggregate output and the
// destination router: every final result is formatted onto the
// recognition buffer, and every result — final or not — passes through
// unmodified to the router's input channel.
//
// With no destinations configured, callers should use NewSink instead —
// it populates the same buffer without requiring a router channel.
type Forwarder struct {
	buffer *RecognitionBuffer
	out    chan<- core.RecognitionResult
}

// NewForwarder constructs a Forwarder writing to buffer and relaying to out.
func NewForwarder(buffer *RecognitionBuffer, out chan<- core.RecognitionResult) *Forwarder {
	return &Forwarder{buffer: buffer, out: out}
}

// Run drains in until it is closed or ctx is done, recording final results
// on the buffer and then forwarding every result to out, or logging it
// when out is not set.
func (f *Forwarder) Run(ctx context.Context, in <-chan core.RecognitionResult) {
	for {
		select {
		case result, ok := <-in:
			if !ok {
				return
			}
			f.record(result)
			if f.out == nil {
				forwarderLog.Info("recognition",
					"input_id", result.InputID,
					"text", result.Text,
					"final", result.IsFinal)
			} else {
				select {
				case f.out <- result:
				case <-ctx.Done():
					return
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

func (f *Forwarder) record(result core.RecognitionResult) {
	if !result.IsFinal {
		return
	}
	f.buffer.Push(fmt.Sprintf("[%s] %s", result.InputID, result.Text))
}

// NewSink builds a logger-only Forwarder for when no destinations are
// configured: it still populates the recognition buffer on final results
// but has nothing downstream to relay to.
func NewSink(buffer *RecognitionBuffer) *Forwarder {
	return &Forwarder{buffer: buffer}
}
