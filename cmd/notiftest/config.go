// Package main is the entry point for the notiftest application.
// This file contains the config subcommand handler.
package main

import (
	"flag"
	"fmt"
	"os"

	"notiftest/internal/config"
)

// configHelpText is the help message for the config subcommand.
const configHelpText = `notiftest config - Manage the config file

USAGE:
    notiftest config init [--force]
    notiftest config path

COMMANDS:
    init       Write the default config file
    path       Print the config file path

OPTIONS:
    -f, --force    Overwrite an existing config file
    -h, --help     Show this help message
`

// runConfig handles the "notiftest config" subcommand.
func runConfig(args []string) {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, configHelpText)
		os.Exit(1)
	}

	switch args[0] {
	case "path":
		fmt.Println(config.Path())
		return
	case "init":
		runConfigInit(args[1:])
		return
	case "-h", "--help", "help":
		fmt.Print(configHelpText)
		return
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown config command %q\n\n", args[0])
		fmt.Fprint(os.Stderr, configHelpText)
		os.Exit(1)
	}
}

func runConfigInit(args []string) {
	fs := flag.NewFlagSet("config init", flag.ExitOnError)

	forceFlag := fs.Bool("force", false, "overwrite an existing config file")
	fs.BoolVar(forceFlag, "f", false, "overwrite an existing config file (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, configHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	path := config.Path()
	if path == "" {
		fmt.Fprintln(os.Stderr, "Error: cannot determine config directory")
		os.Exit(1)
	}

	if _, err := os.Stat(path); err == nil && !*forceFlag {
		fmt.Fprintf(os.Stderr, "Config already exists at %s (use --force to overwrite)\n", path)
		os.Exit(1)
	}

	if err := config.Default().Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s\n", path)
}
