// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"arkgesture.org/internal/script"
)

var runCmd = &cobra.Command{
	Use:   "run <script.yaml>...",
	Short: "Replay scripts and print the callback trace of each",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScripts,
}

func runScripts(cmd *cobra.Command, args []string) error {
	t, err := loadTuning()
	if err != nil {
		return err
	}
	out := make([][]string, len(args))
	var g errgroup.Group
	for i, path := range args {
		i, path := i, path // per-iteration copy; go directive is below 1.22
		g.Go(func() error {
			s, err := script.Load(path)
			if err != nil {
				return err
			}
			out[i] = script.Replay(s, t)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	for i, lines := range out {
		if len(args) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "=== %s ===\n", args[i])
		}
		if len(lines) > 0 {
			fmt.Fprintln(w, strings.Join(lines, "\n"))
		}
	}
	return nil
}
