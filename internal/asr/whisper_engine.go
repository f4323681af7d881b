package asr

import (
	"context"
	"sync"

	"github.com/m96-chan/ASRMixingRouter/internal/core"
	"github.com/m96-chan/ASRMixingRouter/internal/logging"
	"github.com/m96-chan/ASRMixingRouter/internal/verr"
)

var whisperLog = logging.For("asr:whisper")

// WhisperEngine is a capability-only stub: it validates and retains its
// configuration but performs no real inference. It accepts fed audio and
// returns nil without emitting a result. Treat its contract as the
// capability-set contract only — it is not wired to the teacher's
// sherpa-onnx binding, per the source's own stub behavior.
type WhisperEngine struct {
	mu        sync.Mutex
	modelPath string
	language  string
	result    chan<- core.RecognitionResult
}

// NewWhisperEngine constructs an unconfigured WhisperEngine.
func NewWhisperEngine() *WhisperEngine { return &WhisperEngine{} }

func (e *WhisperEngine) Name() string { return "whisper" }

func (e *WhisperEngine) Initialize(ctx context.Context, config map[string]any) error {
	modelPath, ok := config["model_path"].(string)
	if !ok || modelPath == "" {
		return verr.NewAsrInitializationFailed("missing 'model_path' in whisper config")
	}
	language, _ := config["language"].(string)
	if language == "" {
		language = "ja"
	}

	e.mu.Lock()
	e.modelPath = modelPath
	e.language = language
	e.mu.Unlock()
	return nil
}

func (e *WhisperEngine) SetResultSender(ch chan<- core.RecognitionResult) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.result = ch
}

func (e *WhisperEngine) FeedAudio(ctx context.Context, chunk core.AudioChunk) error {
	whisperLog.Debug("stub: real inference deferred", "samples", len(chunk.Samples))
	return nil
}

func (e *WhisperEngine) Shutdown(ctx context.Context) error { return nil }
