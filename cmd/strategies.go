package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/loom-lang/dissect/profile"
)

func CreateStrategiesCommand(action cli.ActionFunc) *cli.Command {
	return &cli.Command{
		Name:        "strategies",
		Usage:       "Lists registered disassembly strategies",
		Description: "Lists the profile's strategies in fallback order with their current availability",
		Action:      action,
		Flags: []cli.Flag{
			ProfileFlag,
		},
	}
}

var StrategiesCommand = CreateStrategiesCommand(ListStrategies)

func ListStrategies(ctx *cli.Context) error {
	prof, err := profile.LoadProfile(ctx.Path(ProfileFlag.Name))
	if err != nil {
		return fmt.Errorf("error loading profile: %w", err)
	}

	registry, err := prof.BuildRegistry()
	if err != nil {
		return err
	}

	var sb strings.Builder
	for _, info := range registry.List() {
		marker := " "
		if info.Selected {
			marker = "*"
		}
		state := "unavailable"
		if info.Available {
			state = "available"
		}
		sb.WriteString(fmt.Sprintf("%s %-16s %s\n", marker, info.Name, state))
	}
	_, err = os.Stdout.WriteString(sb.String())
	return err
}
