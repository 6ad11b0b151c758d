package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastq/internal/bus"
	"github.com/jmylchreest/toastq/internal/clock"
	"github.com/jmylchreest/toastq/internal/config"
	"github.com/jmylchreest/toastq/internal/model"
	"github.com/jmylchreest/toastq/internal/notifications"
	"github.com/jmylchreest/toastq/internal/tray"
)

var trayOpts struct {
	bus     bool
	page    string
	noWatch bool
}

var trayCmd = &cobra.Command{
	Use:   "tray",
	Short: "Launch the interactive notification tray",
	Long: `Launch a terminal page with a notification tray below it.

Scrolling the page moves the tray. Toasts are evicted oldest first, one per
display interval.

Key bindings:
  n           Raise a new toast
  w           Show the welcome toast (only once until the cache is cleared)
  f           Force the welcome toast
  r           Raise a repeated "ping" toast
  c           Clear the notification cache
  x           Clear all active toasts
  j/k, ↑/↓    Scroll the page
  ?           Show help
  q           Quit

With --bus the tray also listens on the session bus so "toastq send" can
raise toasts from other processes.`,
	Args: cobra.NoArgs,
	RunE: runTray,
}

func init() {
	rootCmd.AddCommand(trayCmd)

	trayCmd.Flags().BoolVar(&trayOpts.bus, "bus", false,
		"Export the D-Bus control interface")
	trayCmd.Flags().StringVar(&trayOpts.page, "page", "",
		"File to show as the scrollable page (default: filler text)")
	trayCmd.Flags().BoolVar(&trayOpts.noWatch, "no-watch", false,
		"Do not reload the config file when it changes")
}

func runTray(cmd *cobra.Command, args []string) error {
	c := getConfig()
	clk := clock.Real()

	var page string
	if trayOpts.page != "" {
		data, err := os.ReadFile(trayOpts.page)
		if err != nil {
			return fmt.Errorf("failed to read page: %w", err)
		}
		page = string(data)
	}

	surface := tray.NewSurface()
	opts := notifications.OptionsFromConfig(c)
	opts.Surface = surface
	opts.Clock = clk
	opts.Logger = logger
	ctrl := notifications.New[string](opts)
	defer ctrl.Close()

	var watcher *config.Watcher
	if !trayOpts.noWatch {
		path, err := configPath()
		if err != nil {
			logger.Warn("config watching disabled", "error", err)
		} else if watcher, err = config.NewWatcher(path, logger); err != nil {
			logger.Warn("failed to create config watcher", "error", err)
		} else {
			if err := watcher.Start(c); err != nil {
				logger.Warn("failed to start config watcher", "error", err)
			}
			defer func() { _ = watcher.Stop() }()
		}
	}

	if trayOpts.bus {
		server := bus.NewServer(ctrl, logger)
		server.SetContentFunc(func(name, body string) model.Producer[string] {
			return tray.Producer(name, body, clk, watcher.Latest(c).Tray.Width)
		})
		if err := server.Start(); err != nil {
			return fmt.Errorf("failed to start D-Bus server: %w", err)
		}
		defer func() { _ = server.Stop() }()
	}

	return tray.Run(tray.RunOptions{
		Config:     c,
		Controller: ctrl,
		Surface:    surface,
		Clock:      clk,
		Page:       page,
		Watcher:    watcher,
	})
}
