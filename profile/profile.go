package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/loom-lang/dissect/disassembler"
	"github.com/loom-lang/dissect/disassembler/exttool"
	"github.com/loom-lang/dissect/disassembler/listing"
)

// ToolConfig declares an external disassembler tool.
type ToolConfig struct {
	Name string   `yaml:"name"`
	Path string   `yaml:"path"`
	Args []string `yaml:"args"`
}

// Profile represents the configuration for a target runtime installation.
type Profile struct {
	Runtime  string       `yaml:"runtime"`
	Archives []string     `yaml:"archives"`
	Strategy string       `yaml:"strategy"` // preferred strategy; empty picks the first available
	Tools    []ToolConfig `yaml:"tools"`
}

// LoadProfile loads a runtime profile from a YAML file.
func LoadProfile(filename string) (*Profile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile: %w", err)
	}
	defer file.Close()

	var profile Profile
	if err := yaml.NewDecoder(file).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &profile, nil
}

// BuildRegistry registers the profile's external tools in declaration
// order, then the builtin listing strategy as the final fallback. When the
// profile names a preferred strategy it is selected eagerly.
func (p *Profile) BuildRegistry() (*disassembler.Registry, error) {
	registry := disassembler.NewRegistry()
	for _, tc := range p.Tools {
		registry.Register(tc.Name, exttool.New(tc.Name, tc.Path, tc.Args...))
	}
	registry.Register("listing", listing.New())

	if p.Strategy != "" {
		if _, err := registry.Select(p.Strategy); err != nil {
			return nil, fmt.Errorf("profile strategy %q: %w", p.Strategy, err)
		}
	}
	return registry, nil
}
