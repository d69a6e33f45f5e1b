package transferfunction

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/df07/raytrace-testing/pkg/core"
)

// SymbolPrefix is prepended to a tag to form the name a factory is exported under
const SymbolPrefix = "ospray_create_testing_transfer_function"

var (
	ErrInvalidTag     = errors.New("invalid transfer function tag")
	ErrNilFactory     = errors.New("nil transfer function factory")
	ErrDuplicateTag   = errors.New("transfer function tag already registered")
	ErrRegistryFrozen = errors.New("transfer function registry is frozen")
	ErrSymbolNotFound = errors.New("symbol not found")
)

var tagPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Builder creates transfer function resources for a scalar value range.
// Each call returns a new resource; builders keep no state between calls.
type Builder interface {
	CreateTransferFunction(valueRange core.Vec2) (*TransferFunction, error)
}

// Factory returns a newly allocated Builder owned by the caller
type Factory func() Builder

// SymbolName returns the exported name a factory registered under tag is looked up by
func SymbolName(tag string) string {
	return SymbolPrefix + "__" + tag
}

// Registry maps exported symbol names to builder factories.
// Registration normally happens from package init; Freeze ends the registration phase.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	frozen    bool
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register exports factory under SymbolName(tag)
func (r *Registry) Register(tag string, factory Factory) error {
	if !tagPattern.MatchString(tag) {
		return fmt.Errorf("%w: %q", ErrInvalidTag, tag)
	}
	if factory == nil {
		return fmt.Errorf("%w: %q", ErrNilFactory, tag)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("%w: cannot register %q", ErrRegistryFrozen, tag)
	}
	symbol := SymbolName(tag)
	if _, exists := r.factories[symbol]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTag, symbol)
	}
	r.factories[symbol] = factory
	return nil
}

// MustRegister is like Register but panics on error. Intended for init functions.
func (r *Registry) MustRegister(tag string, factory Factory) {
	if err := r.Register(tag, factory); err != nil {
		panic(err)
	}
}

// Lookup finds the factory exported under the full symbol name
func (r *Registry) Lookup(symbol string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
	}
	return factory, nil
}

// New looks up the factory registered under tag and invokes it
func (r *Registry) New(tag string) (Builder, error) {
	factory, err := r.Lookup(SymbolName(tag))
	if err != nil {
		return nil, err
	}
	return factory(), nil
}

// Tags returns the registered tags in sorted order
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]string, 0, len(r.factories))
	for symbol := range r.factories {
		tags = append(tags, strings.TrimPrefix(symbol, SymbolPrefix+"__"))
	}
	sort.Strings(tags)
	return tags
}

// Freeze ends the registration phase. Later Register calls fail with ErrRegistryFrozen.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether Freeze has been called
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Default is the process-wide registry the built-in testing transfer functions register with
var Default = NewRegistry()

// Register exports factory under tag in the Default registry
func Register(tag string, factory Factory) error { return Default.Register(tag, factory) }

// MustRegister registers with the Default registry and panics on error
func MustRegister(tag string, factory Factory) { Default.MustRegister(tag, factory) }

// Lookup finds a factory in the Default registry by symbol name
func Lookup(symbol string) (Factory, error) { return Default.Lookup(symbol) }

// New creates a builder registered under tag in the Default registry
func New(tag string) (Builder, error) { return Default.New(tag) }

// Tags lists the tags registered in the Default registry
func Tags() []string { return Default.Tags() }
