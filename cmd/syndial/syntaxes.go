package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"syndial/internal/syntax"
)

var (
	syntaxesFormat string
	syntaxesAll    bool
)

func init() {
	syntaxesCmd.Flags().StringVar(&syntaxesFormat, "format", "pretty", "output format (pretty|json)")
	syntaxesCmd.Flags().BoolVar(&syntaxesAll, "all", false, "include hidden syntaxes")
}

var syntaxesCmd = &cobra.Command{
	Use:   "syntaxes",
	Short: "List registered syntax definitions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := readListFormat(syntaxesFormat)
		if err != nil {
			return err
		}
		return runCommand(cmd, "syntaxes", func(ctx context.Context, s *session) error {
			all, err := s.scan(ctx)
			if err != nil {
				return err
			}
			return renderSyntaxes(cmd.OutOrStdout(), format, visibleSyntaxes(all, syntaxesAll))
		})
	},
}

func visibleSyntaxes(all []syntax.Syntax, includeHidden bool) []syntax.Syntax {
	if includeHidden {
		return all
	}
	out := make([]syntax.Syntax, 0, len(all))
	for _, syn := range all {
		if !syn.Hidden {
			out = append(out, syn)
		}
	}
	return out
}

func renderSyntaxes(out io.Writer, format string, syntaxes []syntax.Syntax) error {
	if format == "json" {
		if syntaxes == nil {
			syntaxes = []syntax.Syntax{}
		}
		return encodeJSON(out, syntaxes)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, syn := range syntaxes {
		hidden := ""
		if syn.Hidden {
			hidden = "hidden"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", syn.Name, syn.Scope, syn.Path, hidden)
	}
	return tw.Flush()
}
