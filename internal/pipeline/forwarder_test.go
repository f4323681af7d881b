package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m96-chan/ASRMixingRouter/internal/core"
)

func TestForwarderRelaysEveryResult(t *testing.T) {
	in := make(chan core.RecognitionResult, 2)
	out := make(chan core.RecognitionResult, 2)
	buffer := NewRecognitionBuffer()
	f := NewForwarder(buffer, out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.Run(ctx, in)

	in <- core.RecognitionResult{InputID: "mic1", Text: "partial", IsFinal: false}
	in <- core.RecognitionResult{InputID: "mic1", Text: "final", IsFinal: true}

	for i := 0; i < 2; i++ {
		select {
		case <-out:
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for relayed result")
		}
	}
}

func TestForwarderBuffersOnlyFinalResults(t *testing.T) {
	in := make(chan core.RecognitionResult, 2)
	out := make(chan core.RecognitionResult, 2)
	buffer := NewRecognitionBuffer()
	f := NewForwarder(buffer, out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.Run(ctx, in)

	in <- core.RecognitionResult{InputID: "mic1", Text: "partial", IsFinal: false}
	in <- core.RecognitionResult{InputID: "mic1", Text: "final", IsFinal: true}
	<-out
	<-out

	assert.Eventually(t, func() bool {
		snap := buffer.Snapshot()
		return len(snap) == 1 && snap[0] == "[mic1] final"
	}, time.Second, 5*time.Millisecond)
}

func TestSinkRecordsWithoutRouterChannel(t *testing.T) {
	in := make(chan core.RecognitionResult, 1)
	buffer := NewRecognitionBuffer()
	f := NewSink(buffer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.Run(ctx, in)

	in <- core.RecognitionResult{InputID: "mic1", Text: "hello", IsFinal: true}

	assert.Eventually(t, func() bool {
		snap := buffer.Snapshot()
		return len(snap) == 1 && snap[0] == "[mic1] hello"
	}, time.Second, 5*time.Millisecond)
}

func TestForwarderStopsOnInputClose(t *testing.T) {
	in := make(chan core.RecognitionResult)
	buffer := NewRecognitionBuffer()
	f := NewSink(buffer)

	done := make(chan struct{})
	go func() {
		f.Run(context.Background(), in)
		close(done)
	}()

	close(in)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("forwarder did not stop on input close")
	}
}
