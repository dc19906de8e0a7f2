// Package runtime models the Loom runtime objects the toolkit inspects:
// the closed set of code reference kinds, symbol environments and the
// loaders that produce compiled code units.
package runtime

import (
	"fmt"
	"strings"
)

// Kind tags a code reference variant.
type Kind int

const (
	KindFunction Kind = iota + 1
	KindInterpreted
	KindGeneric
	KindMethod
	KindClass
	KindSymbol
	KindRaw
)

// Value is a code reference: any of the closed set of things a caller may
// ask to disassemble.
type Value interface {
	Kind() Kind
}

// MetaBytecode is the compile-metadata key under which the compiler caches
// a function's encoded unit alongside the function object.
const MetaBytecode = "loom.compiler/bytecode"

// Class is a reflective handle to a defined class: its qualified name, the
// loader that defined it, and the location it was loaded from ("" when it
// was defined in memory).
type Class struct {
	name   string
	loader Loader
	origin string
}

// NewClass creates a class handle. origin is the archive or loose unit
// file the class was loaded from, or empty.
func NewClass(name string, loader Loader, origin string) *Class {
	return &Class{name: name, loader: loader, origin: origin}
}

func (c *Class) Kind() Kind     { return KindClass }
func (c *Class) Name() string   { return c.name }
func (c *Class) Loader() Loader { return c.loader }
func (c *Class) Origin() string { return c.origin }

// Method is a reflective handle to a single method on a class.
type Method struct {
	Name      string
	Declaring *Class
}

func (m *Method) Kind() Kind { return KindMethod }

// Function is a first-class compiled function object. Compile metadata,
// including the cached encoded unit, lives in the unexported side table;
// only the compiler (this package) writes it.
type Function struct {
	name  string
	class *Class
	meta  map[string]any
}

// NewFunction creates a function object backed by the given class.
func NewFunction(name string, class *Class) *Function {
	return &Function{name: name, class: class}
}

// NewCompiledFunction creates a function object carrying its encoded unit
// in the compile-metadata side table, the way the compiler leaves
// in-memory definitions.
func NewCompiledFunction(name string, class *Class, unit []byte) *Function {
	return &Function{
		name:  name,
		class: class,
		meta:  map[string]any{MetaBytecode: unit},
	}
}

func (f *Function) Kind() Kind    { return KindFunction }
func (f *Function) Name() string  { return f.name }
func (f *Function) Class() *Class { return f.class }

// Interpreted is a closure with no compiled code unit; it executes
// directly from its source form.
type Interpreted struct {
	Name   string
	Params []string
	Body   string
}

func (i *Interpreted) Kind() Kind { return KindInterpreted }

// Source renders the closure's source form.
func (i *Interpreted) Source() string {
	name := i.Name
	if name == "" {
		name = "anonymous"
	}
	return fmt.Sprintf("(fn %s [%s]\n  %s)", name, strings.Join(i.Params, " "), i.Body)
}

// Generic is a polymorphic-dispatch wrapper around a concrete callable.
// Generics are never themselves compiled units.
type Generic struct {
	name string
	impl Value
}

// NewGeneric wraps impl in a dispatching function.
func NewGeneric(name string, impl Value) *Generic {
	return &Generic{name: name, impl: impl}
}

func (g *Generic) Kind() Kind   { return KindGeneric }
func (g *Generic) Name() string { return g.name }

// Impl returns the underlying concrete callable.
func (g *Generic) Impl() Value { return g.impl }

// Symbol names a binding in an environment, "namespace.name" qualified.
type Symbol string

func (s Symbol) Kind() Kind { return KindSymbol }

// Raw is a byte sequence handed in directly, already assumed to be an
// encoded unit.
type Raw []byte

func (r Raw) Kind() Kind { return KindRaw }

// Describe returns a short human-readable identification of a reference,
// for error messages and report headers.
func Describe(v Value) string {
	switch v := v.(type) {
	case *Function:
		return fmt.Sprintf("function %s", v.name)
	case *Interpreted:
		if v.Name != "" {
			return fmt.Sprintf("interpreted fn %s", v.Name)
		}
		return "interpreted fn"
	case *Generic:
		return fmt.Sprintf("generic %s", v.name)
	case *Method:
		return fmt.Sprintf("method %s.%s", v.Declaring.Name(), v.Name)
	case *Class:
		return fmt.Sprintf("class %s", v.Name())
	case Symbol:
		return fmt.Sprintf("symbol %s", string(v))
	case Raw:
		return fmt.Sprintf("raw bytes (%d)", len(v))
	default:
		return fmt.Sprintf("%T", v)
	}
}
