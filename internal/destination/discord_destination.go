package destination

import (
	"context"
	"sync"

	"github.com/m96-chan/ASRMixingRouter/internal/core"
	"github.com/m96-chan/ASRMixingRouter/internal/logging"
	"github.com/m96-chan/ASRMixingRouter/internal/verr"
)

var discordLog = logging.For("destination:discord")

// DiscordDestination is a capability-only stub: it validates and retains
// its configuration but only logs on send, matching the source's own stub
// behavior ahead of a real bot integration.
type DiscordDestination struct {
	mu        sync.Mutex
	token     string
	guildID   int64
	channelID int64
}

// NewDiscordDestination constructs an unconfigured DiscordDestination.
func NewDiscordDestination() *DiscordDestination { return &DiscordDestination{} }

func (d *DiscordDestination) Name() string { return "discord" }

func (d *DiscordDestination) Initialize(ctx context.Context, config map[string]any) error {
	token, ok := config["token"].(string)
	if !ok || token == "" {
		return verr.NewDestinationInitializationFailed("missing 'token' in config")
	}

	var guildID, channelID int64
	if v, ok := config["guild_id"].(int64); ok {
		guildID = v
	}
	if v, ok := config["channel_id"].(int64); ok {
		channelID = v
	}

	d.mu.Lock()
	d.token = token
	d.guildID = guildID
	d.channelID = channelID
	d.mu.Unlock()

	discordLog.Info("DiscordDestination initialized (stub)")
	return nil
}

func (d *DiscordDestination) SendText(ctx context.Context, text string, metadata core.TextMetadata) error {
	discordLog.Debug("DiscordDestination stub send", "input_id", metadata.InputID, "text", metadata.Prefix+text)
	return nil
}

func (d *DiscordDestination) IsHealthy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.token != ""
}

func (d *DiscordDestination) Shutdown(ctx context.Context) error { return nil }
