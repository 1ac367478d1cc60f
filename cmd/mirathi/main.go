package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/CoolCerebralTech/mirathi-roadmap/internal/cli"
	"github.com/CoolCerebralTech/mirathi-roadmap/internal/db"
	"github.com/CoolCerebralTech/mirathi-roadmap/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// DB path: env var or default ~/.mirathi/roadmap.db
	dbPath := os.Getenv("MIRATHI_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".mirathi", "roadmap.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Plain output when stdout is not a terminal.
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	opts := []service.Option{}
	if os.Getenv("MIRATHI_LOG_COMMANDS") != "" {
		opts = append(opts, service.WithObserver(service.NewLogCommandObserver(os.Stderr)))
	}

	app := &cli.App{
		Roadmaps: service.NewRoadmapService(database, opts...),
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
