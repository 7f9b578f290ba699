// Package main is the entry point for the notiftest application.
// This file contains the schedule subcommand handler.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"notiftest/internal/notify"
)

// scheduleHelpText is the help message for the schedule subcommand.
const scheduleHelpText = `notiftest schedule - Schedule a local reminder

USAGE:
    notiftest schedule [OPTIONS]

OPTIONS:
    -s, --seconds N    Delay before the reminder (default from config, 5)
    -r, --repeat       Repeat every N seconds until interrupted
    -h, --help         Show this help message

DESCRIPTION:
    Cancels anything already scheduled, schedules one "Don't forget!"
    reminder, then waits. A one-shot reminder exits after delivery; a
    repeating one keeps firing until Ctrl+C.
`

// runSchedule handles the "notiftest schedule" subcommand.
func runSchedule(args []string) {
	fs := flag.NewFlagSet("schedule", flag.ExitOnError)

	secondsFlag := fs.Int("seconds", -1, "delay in seconds")
	fs.IntVar(secondsFlag, "s", -1, "delay in seconds (shorthand)")

	repeatFlag := fs.Bool("repeat", false, "repeat until interrupted")
	fs.BoolVar(repeatFlag, "r", false, "repeat until interrupted (shorthand)")

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, scheduleHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(scheduleHelpText)
		return
	}

	rt, err := loadRuntime(stderrAlerter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer rt.close()

	settings := rt.defaults()
	if *secondsFlag >= 0 {
		settings.IntervalSeconds = *secondsFlag
	}
	if *repeatFlag {
		settings.Repeats = true
	}

	ctrl, err := rt.controller(settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		rt.close()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Resolve an undetermined permission the way the UI's registration would.
	if perm, err := rt.service.GetPermissions(ctx); err == nil && perm != notify.PermissionGranted {
		if perm, _ = rt.service.RequestPermissions(ctx); perm != notify.PermissionGranted {
			fmt.Fprintf(os.Stderr, "Warning: notification permission is %s; reminders will not be shown\n", perm)
		}
	}

	delivered := make(chan notify.Notification, 1)
	sub := rt.service.AddNotificationReceivedListener(func(n notify.Notification) {
		select {
		case delivered <- n:
		default:
		}
	})
	defer sub.Remove()

	id, err := ctrl.Reschedule(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		rt.close()
		os.Exit(1)
	}
	fmt.Printf("Scheduled %s in %ds (repeats: %t)\n", id, settings.IntervalSeconds, settings.Repeats)

	for {
		select {
		case n := <-delivered:
			fmt.Printf("%s  %s: %s\n", n.Date.Format("15:04:05"), n.Request.Content.Title, n.Request.Content.Body)
			if !settings.Repeats {
				return
			}
		case <-ctx.Done():
			_ = rt.service.CancelAllScheduled(context.Background())
			fmt.Println("Canceled")
			return
		}
	}
}
