package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastq/internal/config"
)

var configOpts struct {
	validate bool
	init     bool
	force    bool
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show, validate or create the configuration file",
	Long: `Print the effective configuration as TOML.

  --validate   Check the config file and report problems
  --init       Write the default configuration to the config path`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().BoolVar(&configOpts.validate, "validate", false,
		"Validate the configuration file")
	configCmd.Flags().BoolVar(&configOpts.init, "init", false,
		"Write the default configuration file")
	configCmd.Flags().BoolVar(&configOpts.force, "force", false,
		"Overwrite an existing file with --init")
}

func runConfig(cmd *cobra.Command, args []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	switch {
	case configOpts.init:
		if _, err := os.Stat(path); err == nil && !configOpts.force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := config.DefaultConfig().Save(path); err != nil {
			return err
		}
		fmt.Printf("Wrote default configuration to %s\n", path)
		return nil

	case configOpts.validate:
		// The root command already loaded and validated the file
		fmt.Printf("%s: configuration is valid\n", path)
		return nil
	}

	data, err := getConfig().Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
