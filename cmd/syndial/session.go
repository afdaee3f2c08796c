package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"syndial/internal/dialect"
	"syndial/internal/observ"
	"syndial/internal/syntax"
	"syndial/internal/trace"
)

const appName = "syndial"

type sessionOptions struct {
	ConfigPath string
	DataDir    string
	UI         string
	Jobs       int
	NoCache    bool
	Quiet      bool
	Timings    bool
}

// session holds everything one command invocation works with.
type session struct {
	opts     sessionOptions
	config   *loadedConfig
	ui       uiMode
	dataDir  string
	store    *syntax.PackageStore
	registry *syntax.PackageRegistry
	cache    *syntax.HeaderCache
	timer    *observ.Timer
	progress *scanProgress // nil unless the TUI is on; cleared after the first scan
}

func readSessionOptions(cmd *cobra.Command) (sessionOptions, error) {
	flags := cmd.Root().PersistentFlags()
	var opts sessionOptions
	var err error
	if opts.ConfigPath, err = flags.GetString("config"); err != nil {
		return opts, err
	}
	if opts.DataDir, err = flags.GetString("data-dir"); err != nil {
		return opts, err
	}
	if opts.UI, err = flags.GetString("ui"); err != nil {
		return opts, err
	}
	if opts.Jobs, err = flags.GetInt("jobs"); err != nil {
		return opts, err
	}
	if opts.NoCache, err = flags.GetBool("no-cache"); err != nil {
		return opts, err
	}
	if opts.Quiet, err = flags.GetBool("quiet"); err != nil {
		return opts, err
	}
	if opts.Timings, err = flags.GetBool("timings"); err != nil {
		return opts, err
	}
	colorMode, err := flags.GetString("color")
	if err != nil {
		return opts, err
	}
	return opts, applyColorMode(colorMode)
}

// openSession merges flags over the config file and builds the registry.
// Flags win over config values, config values over defaults.
func openSession(opts sessionOptions) (*session, error) {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	cfg, err := loadConfig(opts.ConfigPath, wd)
	if err != nil {
		return nil, err
	}

	uiValue := cfg.Config.UI
	if opts.UI != "" {
		uiValue = opts.UI
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return nil, err
	}

	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = os.Getenv(dataDirEnv)
	}
	if dataDir == "" {
		dataDir = cfg.Config.DataDir
	}
	if dataDir == "" {
		if dataDir, err = defaultDataDir(); err != nil {
			return nil, fmt.Errorf("failed to locate editor data directory: %w", err)
		}
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = cfg.Config.Jobs
	}

	var cache *syntax.HeaderCache
	if cfg.Config.Cache.Enabled && !opts.NoCache {
		dir := cfg.Config.Cache.Dir
		if dir == "" {
			if dir, err = syntax.DefaultCacheDir(appName); err != nil {
				return nil, fmt.Errorf("failed to locate cache directory: %w", err)
			}
		}
		if cache, err = syntax.OpenHeaderCache(dir); err != nil {
			return nil, fmt.Errorf("failed to open header cache: %w", err)
		}
	}

	regOpts := syntax.RegistryOptions{Jobs: jobs, Cache: cache}
	var progress *scanProgress
	if !opts.Quiet && shouldUseTUI(mode) {
		progress = newScanProgress()
		regOpts.Progress = progress.report
	}

	store := syntax.NewPackageStore(dataDir, cfg.Config.ArchiveDirs...)
	s := &session{
		opts:     opts,
		config:   cfg,
		ui:       mode,
		dataDir:  dataDir,
		store:    store,
		registry: syntax.NewPackageRegistry(store, regOpts),
		cache:    cache,
		progress: progress,
	}
	if opts.Timings {
		s.timer = observ.NewTimer()
	}
	return s, nil
}

func (s *session) patcher() *dialect.Patcher {
	return &dialect.Patcher{Registry: s.registry, Resources: s.store, Writer: s.store}
}

// scan lists every registered syntax as a timed step.
func (s *session) scan(ctx context.Context) ([]syntax.Syntax, error) {
	var all []syntax.Syntax
	list := func() error {
		var err error
		all, err = s.registry.List(ctx)
		return err
	}
	err := s.timer.Track("scan", func() error {
		if s.progress == nil {
			return list()
		}
		p := s.progress
		s.progress = nil
		return p.run(ctx, list)
	})
	return all, err
}

// resolveUmbrella returns the registered umbrella syntax or an
// *dialect.InvalidPathError.
func (s *session) resolveUmbrella(ctx context.Context, path string) (syntax.Syntax, error) {
	if _, err := s.scan(ctx); err != nil {
		return syntax.Syntax{}, err
	}
	umbrella, ok, err := s.registry.Resolve(ctx, path)
	if err != nil {
		return syntax.Syntax{}, err
	}
	if !ok {
		return syntax.Syntax{}, &dialect.InvalidPathError{Role: dialect.RoleUmbrella, Path: path}
	}
	return umbrella, nil
}

func (s *session) enumerate(ctx context.Context, umbrella syntax.Syntax) ([]dialect.Candidate, error) {
	var candidates []dialect.Candidate
	err := s.timer.Track("enumerate", func() error {
		var err error
		candidates, err = dialect.Enumerate(ctx, s.registry, s.store, umbrella)
		return err
	})
	return candidates, err
}

func (s *session) patch(ctx context.Context, umbrellaPath, dialectPath string) (dialect.Result, error) {
	var res dialect.Result
	err := s.timer.Track("patch", func() error {
		var err error
		res, err = s.patcher().Patch(ctx, umbrellaPath, dialectPath)
		return err
	})
	return res, err
}

// runCommand opens tracing and a session around fn, closing both afterwards.
func runCommand(cmd *cobra.Command, name string, fn func(ctx context.Context, s *session) error) error {
	opts, err := readSessionOptions(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cleanup, err := setupTracing(ctx, cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	t := trace.FromContext(ctx)
	span := trace.Begin(t, trace.ScopeCommand, name, 0)
	ctx = trace.WithSpan(ctx, span)

	s, err := openSession(opts)
	if err != nil {
		trace.Fail(t, trace.ScopeCommand, name, err, span.ID())
		span.End("failed")
		return err
	}
	span.WithExtra("data_dir", s.dataDir)

	err = fn(ctx, s)
	if err != nil {
		trace.Fail(t, trace.ScopeCommand, name, err, span.ID())
		span.End("failed")
	} else {
		span.End("")
	}
	if s.opts.Timings {
		s.timer.WriteSummary(cmd.ErrOrStderr())
	}
	return err
}
