package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"syndial/internal/dialect"
	"syndial/internal/ui"
)

var setDialectPreset string

func init() {
	setDialectCmd.Flags().StringVar(&setDialectPreset, "preset", "", "take syntax_file from a configured preset caption")
}

var setDialectCmd = &cobra.Command{
	Use:     "set-dialect <syntax_file> [dialect_file]",
	Aliases: []string{"set"},
	Short:   "Point an umbrella syntax at one of its dialects",
	Long: `Rewrite the extends: line of <syntax_file> so that it names [dialect_file].

Both arguments are resource paths such as Packages/SQL/SQL.sublime-syntax.
When [dialect_file] is omitted, the dialects sharing the umbrella's first two
scope segments are offered in a searchable list; the current one is marked.
The file is left untouched when it already extends the chosen dialect.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, "set-dialect", func(ctx context.Context, s *session) error {
			req, err := buildSetDialectRequest(s.config.Config, setDialectPreset, args)
			if err != nil {
				return err
			}
			return setDialect(ctx, s, req, cmd.InOrStdin(), cmd.OutOrStdout())
		})
	},
}

type setDialectRequest struct {
	SyntaxFile  string
	DialectFile string
	Title       string
}

func buildSetDialectRequest(cfg toolConfig, presetName string, args []string) (setDialectRequest, error) {
	if presetName == "" {
		if len(args) == 0 {
			return setDialectRequest{}, fmt.Errorf("missing <syntax_file> (or --preset)")
		}
		req := setDialectRequest{SyntaxFile: args[0]}
		if len(args) > 1 {
			req.DialectFile = args[1]
		}
		return req, nil
	}

	p, ok := cfg.findPreset(presetName)
	if !ok {
		return setDialectRequest{}, fmt.Errorf("unknown preset %q", presetName)
	}
	if len(args) > 1 {
		return setDialectRequest{}, fmt.Errorf("--preset takes at most one argument, the dialect_file")
	}
	req := setDialectRequest{SyntaxFile: p.SyntaxFile, Title: p.Caption}
	if len(args) == 1 {
		req.DialectFile = args[0]
	}
	return req, nil
}

func setDialect(ctx context.Context, s *session, req setDialectRequest, in io.Reader, out io.Writer) error {
	dialectFile := req.DialectFile
	if dialectFile == "" {
		chosen, ok, err := chooseDialect(ctx, s, req, in, out)
		if err != nil {
			return err
		}
		if !ok {
			if !s.opts.Quiet {
				fmt.Fprintln(out, "canceled")
			}
			return nil
		}
		dialectFile = chosen
	}

	if _, err := s.scan(ctx); err != nil {
		return err
	}
	res, err := s.patch(ctx, req.SyntaxFile, dialectFile)
	if err != nil {
		return err
	}
	if s.opts.Quiet {
		return nil
	}
	if res.Changed {
		fmt.Fprintf(out, "set %s -> %s\n", res.Umbrella.Path, res.Dialect.Path)
	} else {
		fmt.Fprintf(out, "%s already extends %s\n", res.Umbrella.Path, res.Dialect.Path)
	}
	return nil
}

// chooseDialect lets the user pick a candidate, through the TUI when it is on
// and through a numbered prompt otherwise.
func chooseDialect(ctx context.Context, s *session, req setDialectRequest, in io.Reader, out io.Writer) (string, bool, error) {
	umbrella, err := s.resolveUmbrella(ctx, req.SyntaxFile)
	if err != nil {
		return "", false, err
	}
	candidates, err := s.enumerate(ctx, umbrella)
	if err != nil {
		return "", false, err
	}
	if len(candidates) == 0 {
		return "", false, fmt.Errorf("no dialects found for %s (scope %s)", umbrella.Path, umbrella.Scope)
	}

	title := req.Title
	if title == "" {
		title = "Set Syntax Dialect: " + umbrella.Name
	}
	if shouldUseTUI(s.ui) {
		c, ok, err := runPicker(ctx, title, candidates)
		return c.Path, ok, err
	}
	return promptDialect(in, out, title, candidates)
}

// promptDialect reads a candidate number or a resource path. An empty answer
// keeps the current dialect if there is one.
func promptDialect(in io.Reader, out io.Writer, title string, candidates []dialect.Candidate) (string, bool, error) {
	fmt.Fprintln(out, title)
	ui.RenderCandidates(out, candidates, !noColor())
	fmt.Fprintf(out, "dialect [1-%d or path]: ", len(candidates))

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, fmt.Errorf("failed to read answer: %w", err)
	}
	answer := strings.TrimSpace(line)
	if answer == "" {
		if idx := dialect.SelectedIndex(candidates); idx >= 0 {
			return candidates[idx].Path, true, nil
		}
		return "", false, nil
	}
	if n, err := strconv.Atoi(answer); err == nil {
		if n < 1 || n > len(candidates) {
			return "", false, fmt.Errorf("answer %d out of range 1-%d", n, len(candidates))
		}
		return candidates[n-1].Path, true, nil
	}
	return answer, true, nil
}
