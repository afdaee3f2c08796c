package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"syndial/internal/dialect"
	"syndial/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "syndial",
	Short: "Point umbrella syntax definitions at a dialect",
	Long: `syndial rewrites the extends: line of an umbrella syntax definition
(e.g. SQL.sublime-syntax) so that it builds on a chosen dialect (e.g.
PostgreSQL.sublime-syntax). Every syntax embedding the umbrella's scope then
highlights that dialect.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// main registers subcommands and persistent flags, then executes the root
// command. Failures are printed as "Error: ..." and exit with status 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(setDialectCmd)
	rootCmd.AddCommand(dialectsCmd)
	rootCmd.AddCommand(syntaxesCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "path to "+configFileName)
	flags.String("data-dir", "", "editor data directory (parent of Packages)")
	flags.String("ui", "", "interactive picker (auto|on|off)")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("jobs", 0, "parallel header decoders (0 = all CPUs)")
	flags.Bool("no-cache", false, "decode every syntax header without the cache")
	flags.String("trace", "", "write trace events to file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|step|detail|debug)")
	flags.String("trace-format", "auto", "trace format (auto|text|ndjson)")

	if err := rootCmd.Execute(); err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func printError(out io.Writer, err error) {
	msg := err.Error()
	var pathErr *dialect.InvalidPathError
	if errors.As(err, &pathErr) {
		msg += "!"
	}
	fmt.Fprintf(out, "%s %s\n", color.New(color.FgRed, color.Bold).Sprint("Error:"), msg)
}
