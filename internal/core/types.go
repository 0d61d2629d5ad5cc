package core

// Producer synthesises a raw heightmap before any depression filling.
type Producer interface {
	Name() string
	// Produce returns a fresh side x side heightmap. The same seed must give
	// the same heights.
	Produce(seed int64) (*Grid, error)
}

// Factory constructs a Producer using an optional configuration map.
type Factory func(cfg map[string]string) Producer

var producers = map[string]Factory{}

// Register adds a heightmap producer factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	producers[name] = f
}

// Producers exposes the registry of available producer factories.
func Producers() map[string]Factory {
	return producers
}
