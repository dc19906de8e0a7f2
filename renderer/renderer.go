package renderer

import (
	"io"
)

// Report is the outcome of disassembling one code reference.
type Report struct {
	// Target identifies the resolved reference.
	Target string `json:"target"`

	// Strategy names the strategy that produced the listing; empty for
	// the interpreted-code case.
	Strategy string `json:"strategy,omitempty"`

	// Interpreted is true when the reference had no compiled unit and
	// Listing holds its source form instead.
	Interpreted bool `json:"interpreted,omitempty"`

	// Listing is the raw strategy output (or source rendering).
	Listing string `json:"listing"`
}

// Renderer defines the interface for rendering a disassembly report in
// different formats.
type Renderer interface {
	// Render writes the report in the desired format to the provided writer.
	Render(report *Report, output io.Writer) error

	// Format returns the name of the output format (e.g., "json", "text").
	Format() string
}
