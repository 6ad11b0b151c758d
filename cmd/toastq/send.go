package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastq/internal/bus"
)

var sendOpts struct {
	forced     bool
	repeated   bool
	clearCache bool
	clearAll   bool
	show       bool
	timeout    time.Duration
}

var sendCmd = &cobra.Command{
	Use:   "send [name] [body...]",
	Short: "Send a notification to a running tray",
	Long: `Send a notification to a tray started with "toastq tray --bus".

Examples:
  toastq send saved "Document saved"
  toastq send saved --forced
  toastq send ping --repeated --forced
  toastq send --clear-cache
  toastq send --clear-all --show`,
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().BoolVar(&sendOpts.forced, "forced", false,
		"Show even if the name was already shown")
	sendCmd.Flags().BoolVar(&sendOpts.repeated, "repeated", false,
		"Allow several active notifications with this name")
	sendCmd.Flags().BoolVar(&sendOpts.clearCache, "clear-cache", false,
		"Clear the notification cache first")
	sendCmd.Flags().BoolVar(&sendOpts.clearAll, "clear-all", false,
		"Clear all active notifications first")
	sendCmd.Flags().BoolVar(&sendOpts.show, "show", false,
		"Print the active notifications and tray position afterwards")
	sendCmd.Flags().DurationVar(&sendOpts.timeout, "timeout", 5*time.Second,
		"D-Bus call timeout")
}

func runSend(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !sendOpts.clearCache && !sendOpts.clearAll && !sendOpts.show {
		return errors.New("a notification name or a clear flag is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendOpts.timeout)
	defer cancel()

	client, err := bus.NewClient()
	if err != nil {
		return err
	}

	if sendOpts.clearCache {
		if err := client.ClearNotificationsCache(ctx); err != nil {
			return err
		}
	}
	if sendOpts.clearAll {
		if err := client.ClearAllNotifications(ctx); err != nil {
			return err
		}
	}

	if len(args) > 0 {
		name := args[0]
		body := strings.Join(args[1:], " ")
		if err := client.AddNotification(ctx, name, sendOpts.forced, sendOpts.repeated, body); err != nil {
			return err
		}
		logger.Debug("notification sent", "name", name, "forced", sendOpts.forced, "repeated", sendOpts.repeated)
	}

	if sendOpts.show {
		names, err := client.Snapshot(ctx)
		if err != nil {
			return err
		}
		pos, err := client.Position(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("bottom: %s\n", pos)
		for i, name := range names {
			fmt.Printf("%d. %s\n", i+1, name)
		}
	}

	return nil
}
