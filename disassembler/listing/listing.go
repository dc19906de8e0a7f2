// Package listing implements the builtin disassembly strategy: it decodes
// the Loom unit format directly and renders the toolkit's own listing. It
// needs no external tooling, so it serves as the fallback of last resort.
package listing

import (
	"fmt"

	"github.com/loom-lang/dissect/bytecode"
)

// Listing decodes Loom units in-process.
type Listing struct{}

// New creates the builtin listing strategy.
func New() *Listing {
	return &Listing{}
}

// Name returns the strategy name.
func (l *Listing) Name() string { return "listing" }

// Available always reports true; decoding has no external dependency.
func (l *Listing) Available() bool { return true }

// Disassemble decodes the encoded unit and renders its listing.
func (l *Listing) Disassemble(code []byte) (string, error) {
	u, err := bytecode.Decode(code)
	if err != nil {
		return "", fmt.Errorf("listing: %w", err)
	}
	return u.Disassemble(), nil
}
