package runtime

import (
	"errors"
	"sync"
)

// ErrUnbound indicates a symbol has neither a macro nor a function
// binding in the environment.
var ErrUnbound = errors.New("symbol has no binding")

// Env maps symbols to their macro and function bindings. Macro bindings
// shadow function bindings on lookup.
type Env struct {
	mu     sync.RWMutex
	fns    map[Symbol]Value
	macros map[Symbol]Value
}

// NewEnv creates an empty environment.
func NewEnv() *Env {
	return &Env{
		fns:    make(map[Symbol]Value),
		macros: make(map[Symbol]Value),
	}
}

// DefineFn binds sym to a function value.
func (e *Env) DefineFn(sym Symbol, v Value) {
	e.mu.Lock()
	e.fns[sym] = v
	e.mu.Unlock()
}

// DefineMacro binds sym to a macro value.
func (e *Env) DefineMacro(sym Symbol, v Value) {
	e.mu.Lock()
	e.macros[sym] = v
	e.mu.Unlock()
}

// Lookup resolves sym to its macro binding if present, else its function
// binding.
func (e *Env) Lookup(sym Symbol) (Value, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if v, ok := e.macros[sym]; ok {
		return v, true
	}
	v, ok := e.fns[sym]
	return v, ok
}
