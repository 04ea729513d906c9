package main

import (
	"fmt"
	"os"

	"github.com/lox/gridmdp/internal/config"
	"github.com/lox/gridmdp/internal/render"
)

// ScenarioCmd prints a scenario so it can be saved and edited.
type ScenarioCmd struct {
	Config string `short:"c" type:"path" help:"Scenario file to print; the built-in tunnel grid when omitted"`
	Layout bool   `default:"true" negatable:"" help:"Draw the grid layout after the HCL (use --no-layout to skip)"`
}

func (c *ScenarioCmd) Run() error {
	scenario, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	grid, err := scenario.Build()
	if err != nil {
		return err
	}

	os.Stdout.Write(scenario.EncodeHCL())
	if c.Layout {
		// Keep the HCL on stdout clean for redirection.
		fmt.Fprintln(os.Stderr, render.New(nil).Layout(render.SceneFor(grid, scenario.Name)))
	}
	return nil
}
