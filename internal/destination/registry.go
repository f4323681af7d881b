package destination

import "github.com/m96-chan/ASRMixingRouter/internal/verr"

// Factory constructs a fresh, unconfigured Destination instance.
type Factory func() Destination

// Registry maps destination plugin names to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a registry pre-populated with the built-in
// destinations: "file" always, "discord" as a capability-only stub.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register("file", func() Destination { return NewFileDestination() })
	r.Register("discord", func() Destination { return NewDiscordDestination() })
	return r
}

// Register adds or overwrites the factory for name.
func (r *Registry) Register(name string, factory Factory) {
	r.factories[name] = factory
}

// Create instantiates the destination registered under name.
func (r *Registry) Create(name string) (Destination, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, verr.NewDestinationNotFound(name)
	}
	return factory(), nil
}

// List returns the registered destination plugin names.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}
