// Package main is the entry point for the notiftest application.
// This file wires configuration, logging and the notification platform
// shared by the TUI and the headless subcommands.
package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"notiftest/internal/config"
	"notiftest/internal/logger"
	"notiftest/internal/notify"
	"notiftest/internal/push"
	"notiftest/internal/registrar"
	"notiftest/internal/scheduler"

	"go.uber.org/zap"
)

// appRuntime holds the collaborators built once per process.
type appRuntime struct {
	cfg       *config.Config
	log       *zap.Logger
	service   *notify.Service
	push      *push.Client
	registrar *registrar.Registrar
}

// loadRuntime loads the config and builds the runtime. Alerts raised during
// registration go to alerter.
func loadRuntime(alerter registrar.Alerter) (*appRuntime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		File:    cfg.LogFile(),
		Version: version,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log.Info("starting",
		zap.String("commit", commit),
		zap.String("os", runtime.GOOS),
		zap.String("config", config.Path()),
	)

	// The presentation handler is fixed for the lifetime of the process.
	svc := notify.NewService(notify.NewNotifier(), notify.Options{
		Handler: notify.Handler{
			ShowAlert: cfg.Notifications.ShowAlert,
			PlaySound: cfg.Notifications.PlaySound,
			SetBadge:  cfg.Notifications.SetBadge,
		},
		Permission: notify.ParsePermission(cfg.Notifications.Permission),
		Logger:     log,
	})

	client := push.New(push.Config{
		BaseURL:     cfg.Push.RelayURL,
		Timeout:     time.Duration(cfg.Push.TimeoutSeconds) * time.Second,
		Development: cfg.Push.Development,
		AppID:       "notiftest",
	}, push.WithLogger(log))

	reg := registrar.New(svc, client, registrar.Options{
		PhysicalDevice: cfg.Device.Physical,
		ProjectID:      cfg.ProjectID,
		Alerter:        alerter,
		Logger:         log,
	})

	return &appRuntime{
		cfg:       cfg,
		log:       log,
		service:   svc,
		push:      client,
		registrar: reg,
	}, nil
}

// controller builds the schedule controller from the configured defaults.
func (rt *appRuntime) controller(initial scheduler.Settings) (*scheduler.Controller, error) {
	return scheduler.NewController(rt.service, initial, rt.log)
}

// defaults returns the startup schedule settings from config.
func (rt *appRuntime) defaults() scheduler.Settings {
	return scheduler.Settings{
		IntervalSeconds: rt.cfg.Defaults.IntervalSeconds,
		Repeats:         rt.cfg.Defaults.Repeats,
	}
}

// close flushes the logger.
func (rt *appRuntime) close() {
	_ = rt.log.Sync()
}

// stderrAlerter prints alerts for headless commands.
var stderrAlerter = registrar.AlerterFunc(func(message string) {
	fmt.Fprintf(os.Stderr, "Alert: %s\n", message)
})
