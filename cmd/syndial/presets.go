package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List configured set-dialect presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCommand(cmd, "presets", func(_ context.Context, s *session) error {
			out := cmd.OutOrStdout()
			if len(s.config.Config.Presets) == 0 {
				if s.config.Path == "" {
					fmt.Fprintf(out, "no %s found; run `syndial init` to create one\n", configFileName)
				} else {
					fmt.Fprintf(out, "no presets in %s\n", s.config.Path)
				}
				return nil
			}
			for _, p := range s.config.Config.Presets {
				fmt.Fprintf(out, "%s\t%s\n", p.Caption, p.SyntaxFile)
			}
			return nil
		})
	},
}
