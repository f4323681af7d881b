// Command voxmux is a multi-input audio mixing router: it captures one or
// more audio inputs, mixes them onto a single output, optionally feeds
// each input's audio to a speech recognition engine, and fans recognized
// text out to configured destinations.
package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/m96-chan/ASRMixingRouter/internal/asr"
	"github.com/m96-chan/ASRMixingRouter/internal/audio"
	"github.com/m96-chan/ASRMixingRouter/internal/config"
	"github.com/m96-chan/ASRMixingRouter/internal/control"
	"github.com/m96-chan/ASRMixingRouter/internal/core"
	"github.com/m96-chan/ASRMixingRouter/internal/destination"
	"github.com/m96-chan/ASRMixingRouter/internal/logging"
	"github.com/m96-chan/ASRMixingRouter/internal/mixer"
	"github.com/m96-chan/ASRMixingRouter/internal/pipeline"
	"github.com/m96-chan/ASRMixingRouter/internal/ring"
	"github.com/m96-chan/ASRMixingRouter/internal/state"
)

// mixerTickInterval is the reference configuration's mixer-cycle period.
const mixerTickInterval = time.Millisecond

// ringCapacity sizes every SPSC ring a few buffer-periods deep so the
// mixer cycle and driver callback cycle never lock-step.
const ringCapacity = 1 << 15

const shutdownTimeout = 5 * time.Second

// stateBroadcastInterval matches the documented ~30 Hz UI refresh rate.
const stateBroadcastInterval = time.Second / 30

// uiCommandChanCapacity and stateChanCapacity size the channels connecting
// the (out-of-scope) UI to the composition root.
const uiCommandChanCapacity = 16
const stateChanCapacity = 1

func main() {
	configPath := pflag.StringP("config", "c", "config.toml", "path to the TOML config file")
	pflag.Parse()

	log := logging.For("main")

	cfg, err := config.LoadFromFile(*configPath)
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	logging.Init(os.Stderr, logging.ParseLevel(cfg.General.LogLevel))
	log = logging.For("main")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	deviceManager, err := audio.NewDeviceManager()
	if err != nil {
		log.Fatal("failed to initialize audio device manager", "err", err)
	}
	defer deviceManager.Close()

	outputRing := ring.New(ringCapacity)
	mix := mixer.New(outputRing, int(cfg.General.BufferSize))

	outputNode, outputHandle, err := audio.NewOutputNode(
		deviceManager, "output", cfg.Output.DeviceName, cfg.General.SampleRate, 1, cfg.General.BufferSize, outputRing)
	if err != nil {
		log.Fatal("failed to open output device", "err", err)
	}
	outputHandle.SetPlaying(cfg.Output.PlayMixedInput)

	asrHost := asr.NewHost()
	asrRegistry := asr.NewRegistry()

	inputHandles := make(map[string]control.InputHandle, len(cfg.Input))
	captureHandles := make(map[string]control.CaptureHandle, len(cfg.Input))

	var captureNodes []*audio.CaptureNode
	for _, in := range cfg.Input {
		inputRing := ring.New(ringCapacity)
		inputHandles[in.ID] = mix.AddInput(in.ID, inputRing, in.Volume, in.Muted)

		var tap chan<- core.AudioChunk
		if cfg.Asr != nil {
			asrCfg := map[string]any{}
			if cfg.Asr.Whisper != nil {
				asrCfg["model_path"] = cfg.Asr.Whisper.ModelPath
				asrCfg["language"] = cfg.Asr.Whisper.Language
			}
			tap, err = asrHost.AddInput(ctx, in.ID, cfg.Asr.Engine, asrCfg, asrRegistry)
			if err != nil {
				log.Fatal("failed to add ASR input", "input_id", in.ID, "err", err)
			}
		}

		captureNode, captureHandle, err := audio.NewCaptureNode(
			deviceManager, in.ID, in.DeviceName, cfg.General.SampleRate, 1, cfg.General.BufferSize, inputRing, tap)
		if err != nil {
			log.Fatal("failed to open input device", "input_id", in.ID, "err", err)
		}
		captureHandle.SetEnabled(in.Enabled)
		captureHandles[in.ID] = captureHandle
		captureNodes = append(captureNodes, captureNode)
	}

	resultRx, _ := asrHost.TakeResultReceiver()

	hasDestinations := false
	for _, in := range cfg.Input {
		if len(in.Destinations) > 0 {
			hasDestinations = true
			break
		}
	}

	buffer := pipeline.NewRecognitionBuffer()
	var forwarder *pipeline.Forwarder
	var router *destination.Router
	if hasDestinations {
		routerInput := make(chan core.RecognitionResult, 64)
		forwarder = pipeline.NewForwarder(buffer, routerInput)
		router = destination.NewRouter(routerInput)
		for _, in := range cfg.Input {
			for _, route := range in.Destinations {
				base, _ := cfg.Destinations[route.Plugin].(map[string]any)
				routeCfg := make(map[string]any, len(base)+len(route.Extra))
				for k, v := range base {
					routeCfg[k] = v
				}
				for k, v := range route.Extra {
					routeCfg[k] = v
				}
				if err := router.AddRoute(ctx, in.ID, route.Plugin, route.Prefix, routeCfg); err != nil {
					log.Fatal("failed to add destination route", "input_id", in.ID, "plugin", route.Plugin, "err", err)
				}
			}
		}
	} else {
		forwarder = pipeline.NewSink(buffer)
	}

	// configWatcher observes the TOML file for edits and emits reloaded
	// configs; watchApply diffs each one against the previously applied
	// config and pushes reloadable changes onto the live handles.
	configWatcher, err := config.NewWatcher(*configPath)
	if err != nil {
		log.Fatal("failed to start config watcher", "err", err)
	}
	defer configWatcher.Close()
	go configWatcher.Run()

	var warningsMu sync.Mutex
	var latestWarnings []string

	// uiCmdCh is the UI command channel described in SPEC_FULL.md §5/§6: the
	// out-of-scope UI renderer is its producer, voxmux is its sole consumer.
	uiCmdCh := make(chan state.UiCommand, uiCommandChanCapacity)
	// stateCh is the corresponding state broadcast channel: the UI is its
	// external consumer, voxmux is its sole producer.
	stateCh := make(chan state.RouterState, stateChanCapacity)
	quitCh := make(chan struct{})
	var quitOnce sync.Once

	var wg sync.WaitGroup
	if resultRx != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			forwarder.Run(ctx, resultRx)
		}()
	}
	if hasDestinations {
		router.Start(ctx)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		watchApply(ctx, cfg, configWatcher.Changes(), inputHandles, captureHandles, outputHandle, &warningsMu, &latestWarnings)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		dispatchUICommands(ctx, uiCmdCh, inputHandles, captureHandles, outputHandle, &quitOnce, quitCh)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		broadcastState(ctx, cfg, inputHandles, captureHandles, outputHandle, buffer, &warningsMu, &latestWarnings, stateCh)
	}()

	for _, node := range captureNodes {
		if err := node.Start(); err != nil {
			log.Fatal("failed to start capture node", "err", err)
		}
	}
	if err := outputNode.Start(); err != nil {
		log.Fatal("failed to start output node", "err", err)
	}

	mixHandle := mix.Start(mixerTickInterval)
	asrHost.Start(ctx)

	log.Info("voxmux running", "inputs", len(cfg.Input))

	select {
	case <-sigCh:
		log.Info("received OS signal, shutting down")
	case <-quitCh:
		log.Info("received UI quit command, shutting down")
	}

	for _, node := range captureNodes {
		node.Stop()
	}
	outputNode.Stop()
	mixHandle.Stop()
	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		if hasDestinations {
			_ = router.Shutdown(context.Background())
		}
		close(done)
	}()

	select {
	case <-done:
		log.Info("shutdown complete")
	case <-time.After(shutdownTimeout):
		log.Warn("shutdown timed out, forcing exit")
	}
}

// watchApply implements §4.I's hot-reload path: each successfully reparsed
// config is diffed against the last one applied, reloadable changes are
// pushed to the corresponding live handles, and non-reloadable changes are
// logged as warnings and surfaced to the state broadcaster instead of
// acted on.
func watchApply(
	ctx context.Context,
	initial config.AppConfig,
	changes <-chan config.AppConfig,
	inputHandles map[string]control.InputHandle,
	captureHandles map[string]control.CaptureHandle,
	outputHandle control.OutputHandle,
	warningsMu *sync.Mutex,
	latestWarnings *[]string,
) {
	log := logging.For("config:reload")
	prev := initial

	for {
		select {
		case newCfg, ok := <-changes:
			if !ok {
				return
			}
			diff := config.DiffConfigs(prev, newCfg)

			for _, vc := range diff.VolumeChanges {
				if h, ok := inputHandles[vc.InputID]; ok {
					h.SetVolume(vc.Volume)
				}
			}
			for _, mc := range diff.MuteChanges {
				if h, ok := inputHandles[mc.InputID]; ok {
					h.SetMuted(mc.Muted)
				}
			}
			for _, ec := range diff.EnabledChanges {
				if h, ok := captureHandles[ec.InputID]; ok {
					h.SetEnabled(ec.Enabled)
				}
			}
			if diff.PlayMixedChange != nil {
				outputHandle.SetPlaying(*diff.PlayMixedChange)
			}
			for _, w := range diff.NonReloadable {
				log.Warn("non-reloadable config change ignored, restart required", "detail", w)
			}

			warningsMu.Lock()
			*latestWarnings = diff.NonReloadable
			warningsMu.Unlock()

			prev = newCfg

		case <-ctx.Done():
			return
		}
	}
}

// dispatchUICommands applies each received UiCommand to the matching live
// handle. A Quit command signals shutdown exactly once via quitCh.
func dispatchUICommands(
	ctx context.Context,
	cmds <-chan state.UiCommand,
	inputHandles map[string]control.InputHandle,
	captureHandles map[string]control.CaptureHandle,
	outputHandle control.OutputHandle,
	quitOnce *sync.Once,
	quitCh chan struct{},
) {
	for {
		select {
		case cmd, ok := <-cmds:
			if !ok {
				return
			}
			switch cmd.Kind {
			case state.UiCommandSetVolume:
				if h, ok := inputHandles[cmd.InputID]; ok {
					h.SetVolume(cmd.Volume)
				}
			case state.UiCommandSetMuted:
				if h, ok := inputHandles[cmd.InputID]; ok {
					h.SetMuted(cmd.Muted)
				}
			case state.UiCommandSetEnabled:
				if h, ok := captureHandles[cmd.InputID]; ok {
					h.SetEnabled(cmd.Enabled)
				}
			case state.UiCommandSetPlayMixedInput:
				outputHandle.SetPlaying(cmd.Playing)
			case state.UiCommandQuit:
				quitOnce.Do(func() { close(quitCh) })
			}

		case <-ctx.Done():
			return
		}
	}
}

// broadcastState publishes a RouterState snapshot at stateBroadcastInterval.
// Publishing is non-blocking: a slow or absent UI consumer never backs up
// the ticker, it just misses intermediate frames.
func broadcastState(
	ctx context.Context,
	cfg config.AppConfig,
	inputHandles map[string]control.InputHandle,
	captureHandles map[string]control.CaptureHandle,
	outputHandle control.OutputHandle,
	buffer *pipeline.RecognitionBuffer,
	warningsMu *sync.Mutex,
	latestWarnings *[]string,
	out chan<- state.RouterState,
) {
	ticker := time.NewTicker(stateBroadcastInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			snap := state.NewRouterState()
			snap.IsRunning = true
			snap.Output = state.OutputState{
				DeviceName:     cfg.Output.DeviceName,
				PlayMixedInput: outputHandle.IsPlaying(),
			}
			for _, in := range cfg.Input {
				ih := inputHandles[in.ID]
				ch := captureHandles[in.ID]
				snap.Inputs = append(snap.Inputs, state.InputState{
					ID:         in.ID,
					DeviceName: in.DeviceName,
					Enabled:    ch.IsEnabled(),
					Volume:     ih.Volume(),
					Muted:      ih.Muted(),
					Status:     toInputStatus(ch.Status()),
				})
			}
			snap.LatestRecognitions = buffer.Snapshot()

			warningsMu.Lock()
			snap.Warnings = *latestWarnings
			warningsMu.Unlock()

			select {
			case out <- snap:
			default:
				select {
				case <-out:
				default:
				}
				select {
				case out <- snap:
				default:
				}
			}

		case <-ctx.Done():
			return
		}
	}
}

func toInputStatus(s control.Status) state.InputStatus {
	switch s {
	case control.StatusError:
		return state.InputStatusError
	case control.StatusDisabled:
		return state.InputStatusDisabled
	default:
		return state.InputStatusOk
	}
}
