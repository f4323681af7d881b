package destination

import (
	"context"
	"sync"

	"github.com/m96-chan/ASRMixingRouter/internal/core"
	"github.com/m96-chan/ASRMixingRouter/internal/logging"
)

var routerLog = logging.For("destination:router")

type route struct {
	destination Destination
	prefix      string
}

// Router fans recognized, final text out to the routes registered for
// each input. One task drains the aggregate result channel; per-message
// send failures are logged, never fatal to the router.
type Router struct {
	registry *Registry

	mu     sync.Mutex
	routes map[string][]route

	resultRx <-chan core.RecognitionResult
	taken    bool

	done chan struct{}
}

// NewRouter constructs a Router draining resultRx once Start is called.
func NewRouter(resultRx <-chan core.RecognitionResult) *Router {
	return &Router{
		registry: NewRegistry(),
		routes:   make(map[string][]route),
		resultRx: resultRx,
	}
}

// AddRoute instantiates pluginName from the registry, initializes it, and
// registers it for inputID. Multiple routes per input fan out in
// registration order.
func (r *Router) AddRoute(ctx context.Context, inputID, pluginName, prefix string, config map[string]any) error {
	dest, err := r.registry.Create(pluginName)
	if err != nil {
		return err
	}
	if err := dest.Initialize(ctx, config); err != nil {
		return err
	}

	r.mu.Lock()
	r.routes[inputID] = append(r.routes[inputID], route{destination: dest, prefix: prefix})
	r.mu.Unlock()
	return nil
}

// Start spawns the single draining goroutine. Must be called at most once.
func (r *Router) Start(ctx context.Context) {
	r.mu.Lock()
	routes := r.routes
	r.mu.Unlock()

	done := make(chan struct{})
	r.done = done

	go func() {
		defer close(done)
		for {
			select {
			case result, ok := <-r.resultRx:
				if !ok {
					return
				}
				if !result.IsFinal {
					continue
				}
				for _, rt := range routes[result.InputID] {
					metadata := core.TextMetadata{InputID: result.InputID, Prefix: rt.prefix}
					if err := rt.destination.SendText(ctx, result.Text, metadata); err != nil {
						routerLog.Error("send_text failed",
							"input_id", result.InputID,
							"destination", rt.destination.Name(),
							"err", err)
					}
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Shutdown awaits the draining goroutine's exit, then shuts down every
// registered destination.
func (r *Router) Shutdown(ctx context.Context) error {
	if r.done != nil {
		<-r.done
	}
	for _, routes := range r.allRoutes() {
		for _, rt := range routes {
			if err := rt.destination.Shutdown(ctx); err != nil {
				routerLog.Error("destination shutdown failed", "destination", rt.destination.Name(), "err", err)
			}
		}
	}
	return nil
}

func (r *Router) allRoutes() map[string][]route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.routes
}
