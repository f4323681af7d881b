package asr

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/m96-chan/ASRMixingRouter/internal/core"
	"github.com/m96-chan/ASRMixingRouter/internal/logging"
)

// resultChanCapacity bounds the per-engine and aggregate result channels.
const resultChanCapacity = 64

// tapChanCapacity bounds the per-input tap channel the capture path feeds.
const tapChanCapacity = 64

type pendingInput struct {
	id             string
	taskID         uuid.UUID
	engine         Engine
	tapRx          <-chan core.AudioChunk
	engineResultRx chan core.RecognitionResult
}

// Host is the AsrHost: it collects pending inputs until Start, which spawns
// one worker per input and takes ownership of all tap and engine-result
// receivers.
type Host struct {
	mu       sync.Mutex
	inputs   []pendingInput
	resultCh chan core.RecognitionResult
	taken    bool

	group *errgroup.Group
}

// NewHost constructs an AsrHost with its aggregate result channel.
func NewHost() *Host {
	return &Host{resultCh: make(chan core.RecognitionResult, resultChanCapacity)}
}

// AddInput instantiates engineName from registry, wires its result sender,
// initializes it, and registers a pending worker. Returns the tap sender
// the owning CaptureNode should be given. Must be called before Start.
func (h *Host) AddInput(ctx context.Context, id, engineName string, config map[string]any, registry *Registry) (chan<- core.AudioChunk, error) {
	engine, err := registry.Create(engineName)
	if err != nil {
		return nil, err
	}

	engineResultCh := make(chan core.RecognitionResult, resultChanCapacity)
	engine.SetResultSender(engineResultCh)
	if err := engine.Initialize(ctx, config); err != nil {
		return nil, err
	}

	tapCh := make(chan core.AudioChunk, tapChanCapacity)

	h.mu.Lock()
	h.inputs = append(h.inputs, pendingInput{id: id, taskID: uuid.New(), engine: engine, tapRx: tapCh, engineResultRx: engineResultCh})
	h.mu.Unlock()

	return tapCh, nil
}

// Start moves out the pending inputs and spawns one worker per input.
func (h *Host) Start(ctx context.Context) {
	h.mu.Lock()
	inputs := h.inputs
	h.inputs = nil
	h.mu.Unlock()

	group, gctx := errgroup.WithContext(context.Background())
	h.group = group

	for _, in := range inputs {
		in := in
		group.Go(func() error {
			h.runWorker(gctx, in)
			return nil
		})
	}
}

// runWorker implements §4.F's select loop: deliver tap chunks to the
// engine, relay and re-stamp engine results, terminate on tap-sender drop
// (after a final engine shutdown) or engine-result-channel close.
func (h *Host) runWorker(ctx context.Context, in pendingInput) {
	wlog := logging.For("asr:" + in.id)
	wlog = wlog.With("task_id", in.taskID)
	defer func() {
		if r := recover(); r != nil {
			wlog.Error("asr worker panicked", "recover", r)
		}
	}()

	for {
		select {
		case chunk, ok := <-in.tapRx:
			if !ok {
				if err := in.engine.Shutdown(ctx); err != nil {
					wlog.Error("engine shutdown failed", "err", err)
				}
				return
			}
			if err := in.engine.FeedAudio(ctx, chunk); err != nil {
				wlog.Error("feed_audio failed", "err", err)
				// Processing errors are logged and the worker continues.
			}

		case result, ok := <-in.engineResultRx:
			if !ok {
				return
			}
			// Stamp input_id, overwriting whatever the engine wrote.
			result.InputID = in.id
			select {
			case h.resultCh <- result:
			case <-ctx.Done():
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// TakeResultReceiver yields the aggregate receiver exactly once;
// subsequent calls return (nil, false).
func (h *Host) TakeResultReceiver() (<-chan core.RecognitionResult, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.taken {
		return nil, false
	}
	h.taken = true
	return h.resultCh, true
}

// Shutdown awaits all worker tasks. Callers must have closed the tap
// senders (or otherwise driven each worker to exit) for this to return.
func (h *Host) Shutdown(ctx context.Context) error {
	if h.group == nil {
		return nil
	}
	return h.group.Wait()
}
