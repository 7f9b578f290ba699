// Package main is the entry point for the notiftest application.
// It loads configuration, wires the notification platform, and starts the TUI.
package main

import (
	"flag"
	"fmt"
	"os"

	"notiftest/internal/ui"

	"go.uber.org/zap"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const helpText = `notiftest - Exercise push and local notifications from your terminal

USAGE:
    notiftest [OPTIONS]
    notiftest <command> [ARGS]

COMMANDS:
    token            Register for push notifications and print the token
    push             Send one push notification through the relay
    schedule         Schedule a local reminder and wait for it
    config init      Write the default config file

OPTIONS:
    -h, --help       Show this help message
    -v, --version    Show version information

DESCRIPTION:
    notiftest registers this machine for push notifications on start and
    shows the push token. A button schedules a local reminder after the
    configured interval, optionally repeating. Scheduling again replaces
    whatever was pending.

KEYBINDINGS:
    Tab/j/↓          Next control
    Shift+Tab/k/↑    Previous control
    Enter/Space      Press the focused control
    s                Schedule notification
    r                Toggle "Repeated"
    i                Edit the interval
    o                Open the last delivered notification
    ?                Show help overlay
    q                Quit

CONFIGURATION:
    Optional config file: ~/.config/notiftest/config.yaml
    The push project id falls back to $EAS_PROJECT_ID.
    Logs are written to ~/.local/state/notiftest/notiftest.log

EXAMPLES:
    # Start the app
    notiftest

    # Print the push token
    notiftest token

    # Send a push to a token
    notiftest push --to 'ExponentPushToken[xxxx]' --title Hi --body There

    # Remind me in 10 seconds, every 10 seconds
    notiftest schedule --seconds 10 --repeat
`

func main() {
	// Check for subcommands first (before flag parsing)
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "token":
			runToken(os.Args[2:])
			return
		case "push":
			runPush(os.Args[2:])
			return
		case "schedule":
			runSchedule(os.Args[2:])
			return
		case "config":
			runConfig(os.Args[2:])
			return
		}
	}

	showVersion := flag.Bool("version", false, "show version information")
	flag.BoolVar(showVersion, "v", false, "show version information (shorthand)")

	showHelp := flag.Bool("help", false, "show help message")
	flag.BoolVar(showHelp, "h", false, "show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, helpText)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("notiftest version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
		os.Exit(0)
	}

	if *showHelp {
		fmt.Print(helpText)
		os.Exit(0)
	}

	// Reject unknown arguments
	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unknown arguments: %v\n\n", flag.Args())
		flag.Usage()
		os.Exit(1)
	}

	alerts := ui.NewAlertQueue()
	rt, err := loadRuntime(alerts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer rt.close()

	ctrl, err := rt.controller(rt.defaults())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	deps := ui.Deps{
		Registrar:  rt.registrar,
		Controller: ctrl,
		Service:    rt.service,
		Alerts:     alerts,
		Logger:     rt.log,
	}
	styles := ui.NewStylesFromTheme(&rt.cfg.Theme)
	appCfg := &ui.AppConfig{Keys: &rt.cfg.Keys}

	if err := ui.Run(deps, styles, appCfg); err != nil {
		rt.log.Error("tui exited", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		rt.close()
		os.Exit(1)
	}
}
