package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/gridmdp/cmd/gridmdp/shared"
	"github.com/lox/gridmdp/internal/render"
	"github.com/lox/gridmdp/internal/tui"
	"github.com/lox/gridmdp/solver"
)

// WatchCmd records every sweep of a solve and opens the interactive viewer.
type WatchCmd struct {
	SolverFlags `embed:""`

	LogFile  string `type:"path" help:"Write viewer debug logs to this file"`
	LogLevel string `enum:"debug,info,warn,error" default:"info" help:"Viewer log level (debug|info|warn|error)"`
}

func (c *WatchCmd) Run() error {
	logger := shared.NewLogger(shared.LogOptions{})

	_, grid, cfg, err := c.load()
	if err != nil {
		return err
	}
	methods, err := methodsFor(c.Method)
	if err != nil {
		return err
	}

	s, err := solver.New(grid, cfg, solver.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := shared.SignalContext(logger)
	defer stop()

	recorder := tui.NewRecorder()
	if _, err := solveAll(ctx, s, methods, recorder.Record); err != nil {
		return err
	}

	viewLogger, closeLog, err := c.viewerLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	scene := render.SceneFor(grid, "")
	model := tui.New(scene, recorder.Frames(), render.New(nil), viewLogger)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	return nil
}

func (c *WatchCmd) viewerLogger() (*log.Logger, func(), error) {
	if c.LogFile == "" {
		return log.New(io.Discard), func() {}, nil
	}

	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	logger := log.NewWithOptions(f, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "watch",
	})
	return logger, func() { f.Close() }, nil
}
