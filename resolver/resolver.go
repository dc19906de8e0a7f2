// Package resolver classifies a code reference and extracts the bytes of
// its compiled representation, or its source form when the reference is
// interpreted code.
package resolver

import (
	"archive/zip"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/loom-lang/dissect/bytecode"
	"github.com/loom-lang/dissect/common"
	"github.com/loom-lang/dissect/runtime"
)

var (
	// ErrUnitUnreadable wraps any I/O failure while extracting unit
	// bytes; the message names the unit and the origin path attempted.
	ErrUnitUnreadable = errors.New("unable to read compiled unit")

	// ErrUnresolvable indicates a reference that cannot yield a compiled
	// unit at all (no defining class or loader).
	ErrUnresolvable = errors.New("cannot resolve reference to a compiled unit")
)

// Result is the outcome of a resolution: unit bytes for compiled code, or
// descriptive text for interpreted code.
type Result struct {
	Bytes []byte
	Text  string
}

// Interpreted reports whether the result is the descriptive-text case.
func (r *Result) Interpreted() bool { return r.Bytes == nil }

// Resolve normalizes ref to a function-like value, classifies how its
// compiled unit was produced, and extracts it.
//
// Extraction priority: cached compile metadata, then a live loader query,
// then archive/loose-file reconstruction from the recorded origin, then
// the generic resource path. The live query is preferred over origin
// reconstruction: reconstruction is a heuristic that can silently diverge
// from what the loader actually produced.
func Resolve(env *runtime.Env, ref runtime.Value) (*Result, error) {
	v, err := normalize(env, ref)
	if err != nil {
		return nil, err
	}

	// Dispatch wrappers are never compiled units; unwrap to the
	// concrete callable.
	for {
		g, ok := v.(*runtime.Generic)
		if !ok {
			break
		}
		v = g.Impl()
		if v == nil {
			return nil, fmt.Errorf("%w: generic %s has no implementation", ErrUnresolvable, g.Name())
		}
	}

	switch v := v.(type) {
	case runtime.Raw:
		return &Result{Bytes: v}, nil

	case *runtime.Interpreted:
		// Terminal non-error path: nothing to disassemble, show the
		// source form instead.
		return &Result{Text: v.Source()}, nil

	case *runtime.Function:
		if cached, ok := cachedBytes(v); ok {
			return &Result{Bytes: cached}, nil
		}
		if v.Class() == nil {
			return nil, fmt.Errorf("%w: function %s has no defining class", ErrUnresolvable, v.Name())
		}
		return classBytes(v.Class())

	case *runtime.Class:
		return classBytes(v)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnresolvable, runtime.Describe(v))
	}
}

// normalize reduces the heterogeneous reference to a function-like value:
// class handles stay, method handles become their declaring class,
// symbols resolve through the environment.
func normalize(env *runtime.Env, ref runtime.Value) (runtime.Value, error) {
	switch ref := ref.(type) {
	case *runtime.Method:
		if ref.Declaring == nil {
			return nil, fmt.Errorf("%w: method %s has no declaring class", ErrUnresolvable, ref.Name)
		}
		return ref.Declaring, nil
	case runtime.Symbol:
		if env == nil {
			return nil, fmt.Errorf("%w: %s (no environment)", runtime.ErrUnbound, ref)
		}
		v, ok := env.Lookup(ref)
		if !ok {
			return nil, fmt.Errorf("%w: %s", runtime.ErrUnbound, ref)
		}
		return v, nil
	default:
		return ref, nil
	}
}

// cachedBytes reads the function's private compile-metadata side table
// and returns the cached encoded unit, if the compiler left one there.
func cachedBytes(fn *runtime.Function) ([]byte, bool) {
	raw, err := common.ReadField(fn, "meta")
	if err != nil {
		return nil, false
	}
	meta, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	b, ok := meta[runtime.MetaBytecode].([]byte)
	return b, ok && b != nil
}

// classBytes extracts the encoded unit for a class handle.
func classBytes(cls *runtime.Class) (*Result, error) {
	// Live loader query: authoritative when the loader exposes it.
	if bl, ok := cls.Loader().(runtime.BytesLoader); ok {
		if b, ok := bl.UnitBytes(cls.Name()); ok {
			return &Result{Bytes: b}, nil
		}
	}

	// Reconstruct the member locator from the recorded load origin.
	if origin := cls.Origin(); origin != "" {
		b, err := originBytes(cls.Name(), origin)
		if err != nil {
			return nil, err
		}
		return &Result{Bytes: b}, nil
	}

	// Generic resource path on the defining loader.
	if cls.Loader() != nil {
		name := bytecode.ResourcePath(cls.Name())
		rc, err := cls.Loader().Resource(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s via resource %s: %v", ErrUnitUnreadable, cls.Name(), name, err)
		}
		b, err := common.Drain(rc)
		if err != nil {
			return nil, fmt.Errorf("%w: %s via resource %s: %v", ErrUnitUnreadable, cls.Name(), name, err)
		}
		return &Result{Bytes: b}, nil
	}

	return nil, fmt.Errorf("%w: class %s has no loader", ErrUnresolvable, cls.Name())
}

// originBytes streams a unit from its recorded load origin: an archive
// member when the origin is a .lar file, otherwise a loose unit file on
// disk.
func originBytes(qualifiedName, origin string) ([]byte, error) {
	if strings.HasSuffix(origin, runtime.ArchiveExt) {
		return archiveMember(qualifiedName, origin)
	}

	f, err := os.Open(origin)
	if err != nil {
		return nil, fmt.Errorf("%w: %s at %s: %v", ErrUnitUnreadable, qualifiedName, origin, err)
	}
	b, err := common.Drain(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s at %s: %v", ErrUnitUnreadable, qualifiedName, origin, err)
	}
	return b, nil
}

func archiveMember(qualifiedName, origin string) ([]byte, error) {
	member := bytecode.ResourcePath(qualifiedName)
	r, err := zip.OpenReader(origin)
	if err != nil {
		return nil, fmt.Errorf("%w: %s in %s: %v", ErrUnitUnreadable, qualifiedName, origin, err)
	}
	defer func() {
		_ = r.Close()
	}()

	for _, f := range r.File {
		if f.Name != member {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %s in %s: %v", ErrUnitUnreadable, qualifiedName, origin, err)
		}
		b, err := common.Drain(rc)
		if err != nil {
			return nil, fmt.Errorf("%w: %s in %s: %v", ErrUnitUnreadable, qualifiedName, origin, err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: %s: member %s not in %s", ErrUnitUnreadable, qualifiedName, member, origin)
}
