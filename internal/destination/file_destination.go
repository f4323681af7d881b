package destination

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/m96-chan/ASRMixingRouter/internal/core"
	"github.com/m96-chan/ASRMixingRouter/internal/verr"
)

// FileDestination appends "{prefix}{text}\n" to a configured file path.
type FileDestination struct {
	mu        sync.Mutex
	path      string
	sendCount atomic.Int64
}

// NewFileDestination constructs an unconfigured FileDestination.
func NewFileDestination() *FileDestination { return &FileDestination{} }

func (d *FileDestination) Name() string { return "file" }

func (d *FileDestination) Initialize(ctx context.Context, config map[string]any) error {
	path, ok := config["path"].(string)
	if !ok || path == "" {
		return verr.NewDestinationInitializationFailed("missing 'path' in config")
	}

	d.mu.Lock()
	d.path = path
	d.mu.Unlock()
	return nil
}

func (d *FileDestination) SendText(ctx context.Context, text string, metadata core.TextMetadata) error {
	d.mu.Lock()
	path := d.path
	d.mu.Unlock()
	if path == "" {
		return verr.NewDestinationSendFailed("not initialized")
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return verr.NewDestinationSendFailed(err.Error())
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s%s\n", metadata.Prefix, text); err != nil {
		return verr.NewDestinationSendFailed(err.Error())
	}

	d.sendCount.Add(1)
	return nil
}

func (d *FileDestination) IsHealthy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.path != ""
}

func (d *FileDestination) Shutdown(ctx context.Context) error { return nil }

// SendCount returns the number of messages successfully written, for tests.
func (d *FileDestination) SendCount() int64 { return d.sendCount.Load() }
