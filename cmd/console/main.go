package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/worldsim/internal/turnengine"
	"github.com/jwebster45206/worldsim/pkg/worldschema"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <world.json>\n", os.Args[0])
		os.Exit(1)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read world file: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	gs, err := worldschema.Load(data, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load world: %v\n", err)
		os.Exit(1)
	}

	engine, err := turnengine.New(gs, logger, rand.Uint64(), rand.Uint64())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start engine: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(NewConsoleUI(engine), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "console error: %v\n", err)
		os.Exit(1)
	}
}
