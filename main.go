package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/mrlokans/budget-tracker/internal/cli"
	"github.com/mrlokans/budget-tracker/internal/config"
	"github.com/mrlokans/budget-tracker/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

type command interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
	// A missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()
	cfg := config.NewConfig()

	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		if err := entrypoint.Run(cfg, Version); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	name := os.Args[1]
	args := os.Args[2:]

	var cmd command
	switch name {
	case "import":
		cmd = cli.NewImportCommand(cfg)
	case "export":
		cmd = cli.NewExportCommand(cfg)
	case "snapshot":
		cmd = cli.NewSnapshotCommand(cfg)
	case "version":
		fmt.Printf("%s (%s)\n", Version, Commit)
		return
	case "-h", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	if err := cmd.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve     Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  import    Merge a CSV, JSON, zip or snapshot export into the database\n")
	fmt.Fprintf(os.Stderr, "  export    Export the database as CSV, JSON or a snapshot\n")
	fmt.Fprintf(os.Stderr, "  snapshot  Write a standalone copy of the database\n")
	fmt.Fprintf(os.Stderr, "  version   Print the build version\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
