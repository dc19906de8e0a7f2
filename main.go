package main

import (
	"context"
	"log"
	"os"

	"github.com/tliron/commonlog"
	"github.com/urfave/cli/v2"

	"github.com/loom-lang/dissect/cmd"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	app := cli.NewApp()
	app.Name = os.Args[0]
	app.Usage = "Loom Bytecode Inspector"
	app.Description = "Resolves Loom code references to their compiled units and disassembles them"
	app.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:  "verbose",
			Usage: "log verbosity (0 = warnings only)",
		},
	}
	app.Before = func(ctx *cli.Context) error {
		commonlog.Configure(ctx.Int("verbose"), nil)
		return nil
	}
	app.Commands = []*cli.Command{
		cmd.DumpCommand,
		cmd.StrategiesCommand,
	}
	err := app.RunContext(context.Background(), os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
