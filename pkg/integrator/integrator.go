package integrator

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/df07/raytrace-testing/pkg/core"
	"github.com/df07/raytrace-testing/pkg/scene"
)

var (
	// ErrUnknownIntegrator is returned when no integrator is registered under a name
	ErrUnknownIntegrator = errors.New("unknown integrator")
	// ErrDuplicateIntegrator is returned when a name is registered twice
	ErrDuplicateIntegrator = errors.New("integrator already registered")
	// ErrInvalidIntegrator is returned for an empty name or a nil constructor
	ErrInvalidIntegrator = errors.New("invalid integrator registration")
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the radiance arriving along a camera ray
	RayColor(ray core.Ray, scene *scene.Scene, sampler core.Sampler) core.Vec3
}

// Constructor creates an integrator for a sampling configuration
type Constructor func(config scene.SamplingConfig) Integrator

var (
	mu           sync.RWMutex
	constructors = map[string]Constructor{}
)

func init() {
	MustRegister("pathtracer", func(config scene.SamplingConfig) Integrator { return NewPathTracingIntegrator(config) })
	MustRegister("ao", func(config scene.SamplingConfig) Integrator { return NewAmbientOcclusionIntegrator(config) })
	MustRegister("scivis", func(config scene.SamplingConfig) Integrator { return NewSciVisIntegrator(config) })
}

// Register makes an integrator available by name. Names can be registered once.
func Register(name string, constructor Constructor) error {
	if name == "" || constructor == nil {
		return fmt.Errorf("%w: name %q", ErrInvalidIntegrator, name)
	}
	mu.Lock()
	defer mu.Unlock()
	if _, ok := constructors[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateIntegrator, name)
	}
	constructors[name] = constructor
	return nil
}

// MustRegister is Register for init-time registration; it panics on error
func MustRegister(name string, constructor Constructor) {
	if err := Register(name, constructor); err != nil {
		panic(err)
	}
}

// New creates the integrator registered under name
func New(name string, config scene.SamplingConfig) (Integrator, error) {
	mu.RLock()
	constructor, ok := constructors[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIntegrator, name)
	}
	return constructor(config), nil
}

// Names returns the registered integrator names in sorted order
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
