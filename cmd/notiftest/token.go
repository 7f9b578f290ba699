// Package main is the entry point for the notiftest application.
// This file contains the token subcommand handler.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
)

// tokenHelpText is the help message for the token subcommand.
const tokenHelpText = `notiftest token - Register for push notifications

USAGE:
    notiftest token [OPTIONS]

OPTIONS:
    -h, --help    Show this help message

DESCRIPTION:
    Runs the registration sequence once: configures the notification
    channel where the platform needs one, checks and requests permission,
    then exchanges the project id for a push token. Prints the token on
    success. Exits non-zero when registration is refused or fails.
`

// runToken handles the "notiftest token" subcommand.
func runToken(args []string) {
	fs := flag.NewFlagSet("token", flag.ExitOnError)

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, tokenHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(tokenHelpText)
		return
	}

	rt, err := loadRuntime(stderrAlerter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer rt.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res := rt.registrar.Register(ctx)
	if res.OK() {
		fmt.Println(res.Token)
		return
	}

	if res.TokenFailure() {
		fmt.Fprintln(os.Stderr, res.Display())
	} else {
		fmt.Fprintf(os.Stderr, "Registration refused: %s\n", res.Reason)
	}
	rt.close()
	os.Exit(1)
}
