// SPDX-License-Identifier: Unlicense OR MIT

// Command gesturetrace replays touch scripts against the gesture
// recognizers and the drag actuator and prints the callbacks they fire.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"arkgesture.org/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "gesturetrace",
	Short:         "Replay touch scripts and print gesture callbacks",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "tuning file (yaml or toml)")
	rootCmd.AddCommand(runCmd, configCmd)
}

func main() {
	log.SetFlags(0)
	if err := rootCmd.Execute(); err != nil {
		log.Printf("gesturetrace: %v", err)
		os.Exit(1)
	}
}

func loadTuning() (config.Tuning, error) {
	return config.Load(configPath)
}
