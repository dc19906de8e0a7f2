// Package inspect composes the toolkit's public entry point: resolve a
// code reference, run the active disassembly strategy, and format the
// result as commented text.
package inspect

import (
	"fmt"

	"github.com/loom-lang/dissect/disassembler"
	"github.com/loom-lang/dissect/renderer"
	"github.com/loom-lang/dissect/resolver"
	"github.com/loom-lang/dissect/runtime"
)

// Inspector is the disassembly service. It holds its configuration
// explicitly; there is no process-wide active strategy.
type Inspector struct {
	env      *runtime.Env
	registry *disassembler.Registry
}

// New creates an inspector over the given environment and strategy
// registry. env may be nil when symbol references are not used.
func New(env *runtime.Env, registry *disassembler.Registry) *Inspector {
	return &Inspector{env: env, registry: registry}
}

// Registry exposes the strategy registry for selection and listing.
func (i *Inspector) Registry() *disassembler.Registry {
	return i.registry
}

// Report resolves ref and disassembles it with the named strategy, or with
// the registry's active strategy when strategyName is empty. The
// interpreted-code case yields a report carrying the source rendering and
// no strategy.
func (i *Inspector) Report(ref runtime.Value, strategyName string) (*renderer.Report, error) {
	res, err := resolver.Resolve(i.env, ref)
	if err != nil {
		return nil, err
	}

	target := runtime.Describe(ref)
	if res.Interpreted() {
		return &renderer.Report{Target: target, Interpreted: true, Listing: res.Text}, nil
	}

	var strategy disassembler.Strategy
	if strategyName != "" {
		strategy, err = i.registry.Select(strategyName)
		if err != nil {
			return nil, err
		}
	} else {
		strategy = i.registry.Active()
		if strategy == nil {
			return nil, disassembler.ErrNoStrategy
		}
	}

	listing, err := strategy.Disassemble(res.Bytes)
	if err != nil {
		return nil, fmt.Errorf("strategy %s failed on %s: %w", strategy.Name(), target, err)
	}
	return &renderer.Report{Target: target, Strategy: strategy.Name(), Listing: listing}, nil
}

// Disassemble resolves ref through the active strategy and returns the
// comment-prefixed listing.
func (i *Inspector) Disassemble(ref runtime.Value) (string, error) {
	report, err := i.Report(ref, "")
	if err != nil {
		return "", err
	}
	return renderer.CommentLines(report.Listing), nil
}
