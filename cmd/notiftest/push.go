// Package main is the entry point for the notiftest application.
// This file contains the push subcommand handler.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"notiftest/internal/push"

	"go.uber.org/zap"
)

// pushHelpText is the help message for the push subcommand.
const pushHelpText = `notiftest push - Send a push notification through the relay

USAGE:
    notiftest push --to TOKEN [OPTIONS]

OPTIONS:
    -t, --to TOKEN     Recipient push token (required)
        --title TEXT   Notification title (default: "Original Title")
        --body TEXT    Notification body (default: "And here is the body!")
        --sound NAME   Sound to play (default: "default")
        --data JSON    JSON object attached to the message
    -h, --help         Show this help message

EXAMPLES:
    notiftest push --to "$(notiftest token)"
    notiftest push -t 'ExponentPushToken[xxxx]' --data '{"someData":"goes here"}'
`

// runPush handles the "notiftest push" subcommand.
func runPush(args []string) {
	fs := flag.NewFlagSet("push", flag.ExitOnError)

	toFlag := fs.String("to", "", "recipient push token")
	fs.StringVar(toFlag, "t", "", "recipient push token (shorthand)")

	titleFlag := fs.String("title", "Original Title", "notification title")
	bodyFlag := fs.String("body", "And here is the body!", "notification body")
	soundFlag := fs.String("sound", "default", "sound to play")
	dataFlag := fs.String("data", `{"someData":"goes here"}`, "JSON object attached to the message")

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, pushHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(pushHelpText)
		return
	}

	if *toFlag == "" {
		fmt.Fprintln(os.Stderr, "Error: --to is required")
		fs.Usage()
		os.Exit(1)
	}

	var data map[string]any
	if *dataFlag != "" {
		if err := json.Unmarshal([]byte(*dataFlag), &data); err != nil {
			fmt.Fprintf(os.Stderr, "Error: --data must be a JSON object: %v\n", err)
			os.Exit(1)
		}
	}

	rt, err := loadRuntime(stderrAlerter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer rt.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ticket, err := rt.push.Send(ctx, push.Message{
		To:    *toFlag,
		Sound: *soundFlag,
		Title: *titleFlag,
		Body:  *bodyFlag,
		Data:  data,
	})
	if err != nil {
		var relayErr *push.RelayError
		if errors.As(err, &relayErr) {
			rt.log.Warn("push rejected", zap.Int("status", relayErr.StatusCode), zap.String("code", relayErr.Code))
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		rt.close()
		os.Exit(1)
	}

	if !ticket.OK() {
		fmt.Fprintf(os.Stderr, "Push not accepted: %s\n", ticket.Message)
		rt.close()
		os.Exit(1)
	}

	fmt.Printf("Sent (ticket %s)\n", ticket.ID)
}
