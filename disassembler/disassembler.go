// Package disassembler holds the registry of interchangeable disassembly
// strategies and the selection policy between them.
package disassembler

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("dissect.disassembler")

var (
	// ErrUnknownStrategy is returned when selecting a name that was
	// never registered.
	ErrUnknownStrategy = errors.New("unknown disassembly strategy")

	// ErrStrategyUnavailable is returned when a registered strategy's
	// backing implementation is absent from the environment.
	ErrStrategyUnavailable = errors.New("disassembly strategy unavailable")

	// ErrNoStrategy is returned by callers that need a strategy when the
	// registry could not supply any.
	ErrNoStrategy = errors.New("no disassembly strategy available")
)

// Strategy converts a compiled unit's bytes to human-readable text.
//
// Available is probed at selection time, not registration time, so a
// strategy whose external tool appears later in the process lifetime
// becomes usable without re-registration.
type Strategy interface {
	Name() string
	Available() bool
	Disassemble(code []byte) (string, error)
}

type entry struct {
	name     string
	strategy Strategy
}

// Info describes one registry entry for listings.
type Info struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Selected  bool   `json:"selected"`
}

// Registry is an ordered collection of named strategies with a sticky
// active selection. Registration order defines fallback priority. A single
// mutex guards selection and reads, so the registry is safe for concurrent
// callers.
type Registry struct {
	mu      sync.Mutex
	entries []entry
	active  Strategy
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a strategy under a name. Duplicate names are tolerated;
// lookup is first match in registration order, so the earliest wins.
func (r *Registry) Register(name string, s Strategy) {
	r.mu.Lock()
	r.entries = append(r.entries, entry{name: name, strategy: s})
	r.mu.Unlock()
}

// Select makes the named strategy active and returns it. The strategy's
// availability is probed now; a registered but unavailable strategy fails
// with ErrStrategyUnavailable.
func (r *Registry) Select(name string) (Strategy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.name != name {
			continue
		}
		if !e.strategy.Available() {
			return nil, fmt.Errorf("%w: %s", ErrStrategyUnavailable, name)
		}
		r.active = e.strategy
		return e.strategy, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, name)
}

// Active returns the current strategy. The sticky selection is re-probed
// on every read; when it is unset or no longer available, the registry
// scans entries in registration order and adopts the first available one.
// When none qualify it logs a warning and returns nil: callers must treat
// nil as "disassembly unavailable", not as a fatal condition.
func (r *Registry) Active() Strategy {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil && r.active.Available() {
		return r.active
	}
	for _, e := range r.entries {
		if e.strategy.Available() {
			r.active = e.strategy
			return e.strategy
		}
	}
	log.Warningf("no suitable disassembly strategy available (%d registered)", len(r.entries))
	return nil
}

// List returns a snapshot of the registry in registration order.
func (r *Registry) List() []Info {
	r.mu.Lock()
	defer r.mu.Unlock()

	infos := make([]Info, 0, len(r.entries))
	for _, e := range r.entries {
		infos = append(infos, Info{
			Name:      e.name,
			Available: e.strategy.Available(),
			Selected:  e.strategy == r.active,
		})
	}
	return infos
}
