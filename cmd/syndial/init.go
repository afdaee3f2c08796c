package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initDataDir string

func init() {
	initCmd.Flags().StringVar(&initDataDir, "data-dir", "", "data_dir to record (defaults to the platform editor directory)")
}

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a default " + configFileName,
	Long: `Write a syndial.toml with the editor data directory, the UI mode, the
header cache settings and an SQL preset. If [dir] is omitted, the current
directory is used; a missing directory is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

// runInit refuses to overwrite an existing syndial.toml.
func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 && args[0] != "" {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	configPath := filepath.Join(target, configFileName)
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("already initialized: %s exists", configPath)
	}

	dataDir := initDataDir
	if dataDir == "" {
		if dataDir, err = defaultDataDir(); err != nil {
			return fmt.Errorf("failed to locate editor data directory: %w", err)
		}
	}
	if err := os.WriteFile(configPath, []byte(defaultConfigContent(dataDir)), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configFileName, err)
	}

	rel := configPath
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, configPath); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", rel)
	return nil
}
