// cmd/drawdeck/main.go
//
// This is the entry point for the DrawDeck CLI.
//
// Flow:
// 1. Initialize the .drawdeck folder in the current directory
// 2. Load configuration
// 3. Launch the TUI

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kingrea/drawdeck/internal/config"
	"github.com/kingrea/drawdeck/internal/tui"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
		os.Exit(1)
	}

	if err := config.InitDir(cwd); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing .drawdeck directory: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.New(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(
		tui.NewApp(cfg),
		tea.WithAltScreen(), // Use alternate screen buffer (like vim does)
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
