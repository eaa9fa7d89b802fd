// Command pixlab is a terminal client for an AI image-generation
// service. It dispatches to subcommands like ui, login, and generate.
package main

import (
	"fmt"
	"os"

	"pixlab/internal/cmd/generate"
	"pixlab/internal/cmd/login"
	"pixlab/internal/cmd/logout"
	"pixlab/internal/cmd/ui"
	"pixlab/internal/cmd/upscale"
	"pixlab/internal/cmd/users"
)

// main is the process entry point and forwards to run for testable logic.
func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// run parses argv and invokes the matching subcommand handler.
func run(argv []string) error {
	if len(argv) < 2 {
		usage()
		return fmt.Errorf("missing subcommand")
	}

	switch argv[1] {
	case "ui":
		return ui.Run(argv[2:])
	case "login":
		return login.Run(argv[2:])
	case "logout":
		return logout.Run(argv[2:])
	case "generate":
		return generate.Run(argv[2:])
	case "upscale":
		return upscale.Run(argv[2:])
	case "users":
		return users.Run(argv[2:])
	case "-h", "--help", "help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown subcommand: %s", argv[1])
	}
}

// usage prints the canonical CLI syntax to stderr.
func usage() {
	fmt.Fprintln(os.Stderr, "pixlab <ui|login|logout|generate|upscale|users> [flags]")
}
