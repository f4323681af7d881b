// Package destination implements the text fan-out plane: the Destination
// capability interface, a name→factory registry, the bundled file and
// discord-stub destinations, and the DestinationRouter that fans recognized
// text out to the routes registered for each input.
package destination

import (
	"context"

	"github.com/m96-chan/ASRMixingRouter/internal/core"
)

// Destination receives recognized text and forwards it somewhere.
type Destination interface {
	// Name returns the destination's plugin name (e.g. "file", "discord").
	Name() string
	// Initialize performs one-time setup with destination-specific config.
	Initialize(ctx context.Context, config map[string]any) error
	// SendText delivers text with per-message metadata.
	SendText(ctx context.Context, text string, metadata core.TextMetadata) error
	// IsHealthy reports whether the destination can currently accept text.
	IsHealthy() bool
	// Shutdown releases resources. Idempotent.
	Shutdown(ctx context.Context) error
}
