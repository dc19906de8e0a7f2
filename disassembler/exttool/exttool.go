// Package exttool implements a disassembly strategy backed by an
// out-of-process tool: the unit bytes go to the tool's stdin and its
// stdout is the listing.
package exttool

import (
	"bytes"
	"fmt"
	"os/exec"
)

// Tool invokes an external disassembler executable.
type Tool struct {
	name string
	path string
	args []string
}

// New creates a strategy named name that runs the executable at path with
// the given arguments. path may be a bare command name resolved through
// PATH.
func New(name, path string, args ...string) *Tool {
	return &Tool{name: name, path: path, args: args}
}

// Name returns the strategy name.
func (t *Tool) Name() string { return t.name }

// Available reports whether the executable can currently be found. The
// probe runs per call so a tool installed after startup is picked up.
func (t *Tool) Available() bool {
	_, err := exec.LookPath(t.path)
	return err == nil
}

// Disassemble pipes the unit bytes through the external tool and returns
// its output.
func (t *Tool) Disassemble(code []byte) (string, error) {
	//nolint:gosec
	cmd := exec.Command(t.path, t.args...)
	cmd.Stdin = bytes.NewReader(code)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to run %s: %w\nOutput:\n%s", t.path, err, stderr.String())
	}
	return out.String(), nil
}
