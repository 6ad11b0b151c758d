package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastq/internal/output"
	"github.com/jmylchreest/toastq/internal/replay"
)

var replayOpts struct {
	format   string
	template string
	noAge    bool
	noIndex  bool
	maxLen   int
}

var replayCmd = &cobra.Command{
	Use:   "replay <script.yaml>",
	Short: "Replay a scripted notification scenario",
	Long: `Run a scripted scenario against a notification controller on a manual
clock and print the tray state at each snapshot step.

Script format:

  interval: 3s          # display interval (integer values are milliseconds)
  cache_scope: instance # instance (default) or shared
  end: 6s               # optional final frame
  steps:
    - {at: 0s, add: {name: saved, body: "Document saved"}}
    - {at: 0s, add: {name: saved, forced: true}}
    - {at: 100ms, scroll: 100}
    - {at: 1s, clear: cache}     # cache or all
    - {at: 3s, snapshot: true, label: "after eviction"}

Output formats:
  plain   Indented block per frame (default)
  json    JSON array of frames
  line    One line per frame
  names   Visible notification names per frame`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVarP(&replayOpts.format, "format", "f", "plain",
		"Output format: plain, json, line, names")
	replayCmd.Flags().StringVar(&replayOpts.template, "template", "",
		"Go template for plain/line output")
	replayCmd.Flags().BoolVar(&replayOpts.noAge, "no-age", false,
		"Hide notification ages")
	replayCmd.Flags().BoolVar(&replayOpts.noIndex, "no-index", false,
		"Hide step numbers")
	replayCmd.Flags().IntVar(&replayOpts.maxLen, "max-len", 80,
		"Maximum content length (0 = unlimited)")
}

func runReplay(cmd *cobra.Command, args []string) error {
	format := output.FormatType(replayOpts.format)
	if !slices.Contains(output.ValidFormats(), format) {
		return fmt.Errorf("unknown format %q", replayOpts.format)
	}

	script, err := replay.Load(args[0])
	if err != nil {
		return err
	}

	frames, err := replay.Run(script, replay.Options{Logger: logger})
	if err != nil {
		return err
	}
	logger.Debug("replay finished", "steps", len(script.Steps), "frames", len(frames))

	opts := output.DefaultFormatterOptions()
	opts.Template = replayOpts.template
	opts.ShowAge = !replayOpts.noAge
	opts.ShowIndex = !replayOpts.noIndex
	opts.BodyMaxLen = replayOpts.maxLen

	return output.NewFormatter(format, opts).Format(os.Stdout, frames)
}
