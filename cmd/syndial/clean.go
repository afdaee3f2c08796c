package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"syndial/internal/syntax"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the syntax header cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCommand(cmd, "clean", func(_ context.Context, s *session) error {
			return runClean(cmd, s)
		})
	},
}

// runClean removes the header cache. Only the cache's own headers
// subdirectory is deleted, never the configured cache directory itself.
func runClean(cmd *cobra.Command, s *session) error {
	base := s.config.Config.Cache.Dir
	if s.cache != nil {
		base = filepath.Dir(s.cache.Dir())
	}
	if base == "" {
		var err error
		if base, err = syntax.DefaultCacheDir(appName); err != nil {
			return err
		}
	}
	dir := syntax.HeaderCacheDir(base)
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(cmd.OutOrStdout(), "cache directory not found")
			return nil
		}
		return fmt.Errorf("failed to stat %q: %w", dir, err)
	}

	var err error
	if s.cache != nil {
		err = s.cache.Drop()
	} else {
		err = syntax.RemoveHeaderCache(base)
	}
	if err != nil {
		return fmt.Errorf("failed to remove %q: %w", dir, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", dir)
	return nil
}
