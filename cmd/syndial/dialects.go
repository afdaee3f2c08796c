package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"syndial/internal/dialect"
	"syndial/internal/ui"
)

var dialectsFormat string

func init() {
	dialectsCmd.Flags().StringVar(&dialectsFormat, "format", "pretty", "output format (pretty|json)")
}

var dialectsCmd = &cobra.Command{
	Use:   "dialects <syntax_file>",
	Short: "List the dialects an umbrella syntax can extend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := readListFormat(dialectsFormat)
		if err != nil {
			return err
		}
		return runCommand(cmd, "dialects", func(ctx context.Context, s *session) error {
			umbrella, err := s.resolveUmbrella(ctx, args[0])
			if err != nil {
				return err
			}
			candidates, err := s.enumerate(ctx, umbrella)
			if err != nil {
				return err
			}
			return renderDialects(cmd.OutOrStdout(), format, candidates)
		})
	},
}

type dialectPayload struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Selected bool   `json:"selected"`
}

func renderDialects(out io.Writer, format string, candidates []dialect.Candidate) error {
	if format == "json" {
		payload := make([]dialectPayload, 0, len(candidates))
		for _, c := range candidates {
			payload = append(payload, dialectPayload{Name: c.Name, Path: c.Path, Selected: c.Selected()})
		}
		return encodeJSON(out, payload)
	}
	if len(candidates) == 0 {
		fmt.Fprintln(out, "no dialects found")
		return nil
	}
	ui.RenderCandidates(out, candidates, !noColor())
	return nil
}

func readListFormat(value string) (string, error) {
	switch format := strings.ToLower(strings.TrimSpace(value)); format {
	case "pretty", "json":
		return format, nil
	default:
		return "", fmt.Errorf("unsupported format %q (must be pretty or json)", value)
	}
}

func encodeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
