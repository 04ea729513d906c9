package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Solve    SolveCmd         `cmd:"" default:"withargs" help:"Solve the grid world and draw the optimal policies"`
	Watch    WatchCmd         `cmd:"" help:"Step through the sweeps of a solve interactively"`
	Scenario ScenarioCmd      `cmd:"" help:"Print a scenario as HCL together with its layout"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("gridmdp"),
		kong.Description("Value and policy iteration on a grid world with blockages and tunnels"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
