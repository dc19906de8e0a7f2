// Package cmd defines all the commands for the cli
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/loom-lang/dissect/inspect"
	"github.com/loom-lang/dissect/profile"
	"github.com/loom-lang/dissect/renderer"
	"github.com/loom-lang/dissect/runtime"
)

var (
	ProfileFlag = &cli.PathFlag{
		Name:     "profile",
		Usage:    "Path to the runtime profile config file",
		Required: true,
	}
	StrategyFlag = &cli.StringFlag{
		Name:     "strategy",
		Usage:    "Name of the disassembly strategy to use. Default: first available",
		Required: false,
	}
	FormatFlag = &cli.StringFlag{
		Name:        "format",
		Usage:       "format of the output. Options: json, text",
		Required:    false,
		DefaultText: "text",
	}
	OutputPathFlag = &cli.PathFlag{
		Name:     "output-path",
		Usage:    "output file path for the listing. Default: stdout",
		Required: false,
	}
)

func CreateDumpCommand(action cli.ActionFunc) *cli.Command {
	return &cli.Command{
		Name:        "dump",
		Usage:       "Disassembles a compiled unit from the profile's archives",
		Description: "Resolves a qualified unit name against the mounted archives and renders its bytecode",
		ArgsUsage:   "<qualified-name>",
		Action:      action,
		Flags: []cli.Flag{
			ProfileFlag,
			StrategyFlag,
			FormatFlag,
			OutputPathFlag,
		},
	}
}

var DumpCommand = CreateDumpCommand(DumpUnit)

func DumpUnit(ctx *cli.Context) error {
	prof, err := profile.LoadProfile(ctx.Path(ProfileFlag.Name))
	if err != nil {
		return fmt.Errorf("error loading profile: %w", err)
	}

	name := ctx.Args().First()
	if name == "" {
		return fmt.Errorf("missing qualified unit name argument")
	}

	registry, err := prof.BuildRegistry()
	if err != nil {
		return err
	}

	cls, err := findUnit(prof, name)
	if err != nil {
		return err
	}

	insp := inspect.New(runtime.NewEnv(), registry)
	report, err := insp.Report(cls, ctx.String(StrategyFlag.Name))
	if err != nil {
		return fmt.Errorf("error disassembling %s: %w", name, err)
	}

	return writeReport(report, ctx.String(FormatFlag.Name), ctx.Path(OutputPathFlag.Name))
}

// findUnit scans the profile's archives in declaration order for the
// named unit.
func findUnit(prof *profile.Profile, name string) (*runtime.Class, error) {
	for _, path := range prof.Archives {
		loader, err := runtime.OpenArchive(path)
		if err != nil {
			return nil, fmt.Errorf("error mounting archive: %w", err)
		}
		if loader.Has(name) {
			return loader.Class(name), nil
		}
	}
	return nil, fmt.Errorf("unit %s not found in any profile archive", name)
}

// writeReport outputs the report in the specified format.
func writeReport(report *renderer.Report, format, outputPath string) error {
	var output *os.File
	if outputPath == "" {
		output = os.Stdout
	} else {
		absPath, err := filepath.Abs(outputPath)
		if err != nil {
			return fmt.Errorf("unable to determine absolute path: %w", err)
		}
		output, err = os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("unable to open output file: %w", err)
		}
		defer func() {
			_ = output.Close()
		}()
	}

	var rendererInstance renderer.Renderer
	switch format {
	case "text", "":
		rendererInstance = renderer.NewTextRenderer()
	case "json":
		rendererInstance = renderer.NewJSONRenderer()
	default:
		return fmt.Errorf("invalid format: %s", format)
	}

	return rendererInstance.Render(report, output)
}
