package syntax

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"syndial/internal/trace"
)

// RegistryOptions configures a PackageRegistry.
type RegistryOptions struct {
	Jobs  int          // parallel header decoders; <= 0 uses GOMAXPROCS
	Cache *HeaderCache // optional

	// Progress, when set, is called once with the resource count and then
	// after every decoded resource. It is called from several goroutines.
	Progress func(ScanEvent)
}

// ScanEvent reports registry scan progress.
type ScanEvent struct {
	Path  string // empty for the initial event
	Done  int
	Total int
	Err   error // decode failure of Path, the resource is skipped
}

// PackageRegistry lists every syntax resource of a data directory. The scan
// runs once, on first use.
type PackageRegistry struct {
	store *PackageStore
	opts  RegistryOptions

	once     sync.Once
	syntaxes []Syntax
	byPath   map[string]int
	err      error
}

// NewPackageRegistry returns a registry over the resources of store.
func NewPackageRegistry(store *PackageStore, opts RegistryOptions) *PackageRegistry {
	return &PackageRegistry{store: store, opts: opts}
}

// List returns all registered syntaxes ordered by resource path.
func (r *PackageRegistry) List(ctx context.Context) ([]Syntax, error) {
	if err := r.load(ctx); err != nil {
		return nil, err
	}
	out := make([]Syntax, len(r.syntaxes))
	copy(out, r.syntaxes)
	return out, nil
}

// Resolve returns the syntax registered under resourcePath.
func (r *PackageRegistry) Resolve(ctx context.Context, resourcePath string) (Syntax, bool, error) {
	if err := r.load(ctx); err != nil {
		return Syntax{}, false, err
	}
	idx, ok := r.byPath[resourcePath]
	if !ok {
		return Syntax{}, false, nil
	}
	return r.syntaxes[idx], true, nil
}

func (r *PackageRegistry) load(ctx context.Context) error {
	r.once.Do(func() {
		r.syntaxes, r.err = r.scan(ctx)
		r.byPath = make(map[string]int, len(r.syntaxes))
		for i, syn := range r.syntaxes {
			r.byPath[syn.Path] = i
		}
	})
	return r.err
}

// source is where the bytes of one resource come from.
type source struct {
	path     string
	physical string    // loose file, or
	entry    *zip.File // archived entry
}

// read loads loose files through the store, the same path LoadText uses.
func (s source) read(ctx context.Context, store *PackageStore) ([]byte, error) {
	if s.entry == nil {
		return store.readLoose(ctx, s.physical)
	}
	rc, err := s.entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (r *PackageRegistry) scan(ctx context.Context) ([]Syntax, error) {
	t := trace.FromContext(ctx)
	span := trace.Begin(t, trace.ScopeStep, "scan", trace.CurrentSpan(ctx))

	sources, closers, err := r.discover(ctx)
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()
	if err != nil {
		trace.Fail(t, trace.ScopeStep, "scan", err, span.ID())
		span.End("failed")
		return nil, err
	}

	jobs := r.opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// indexes are unique per goroutine, no mutex needed
	results := make([]Syntax, len(sources))
	valid := make([]bool, len(sources))

	total := len(sources)
	var done atomic.Int64
	r.report(ScanEvent{Total: total})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(sources))))
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			syn, err := r.decode(gctx, t, span.ID(), src)
			results[i] = syn
			valid[i] = err == nil
			r.report(ScanEvent{Path: src.path, Done: int(done.Add(1)), Total: total, Err: err})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.End("canceled")
		return nil, err
	}

	syntaxes := make([]Syntax, 0, len(sources))
	seen := make(map[string]struct{}, len(sources))
	for i, ok := range valid {
		seen[sources[i].path] = struct{}{}
		if ok {
			syntaxes = append(syntaxes, results[i])
		}
	}

	if r.opts.Cache != nil {
		r.opts.Cache.Retain(seen)
		if err := r.opts.Cache.Save(); err != nil {
			trace.Fail(t, trace.ScopeStep, "cache", err, span.ID())
		}
	}

	span.WithExtra("syntaxes", strconv.Itoa(len(syntaxes))).End("")
	return syntaxes, nil
}

func (r *PackageRegistry) report(ev ScanEvent) {
	if r.opts.Progress != nil {
		r.opts.Progress(ev)
	}
}

// decode reads one resource header, consulting the cache first. Unreadable or
// malformed definitions are skipped by the caller, the way an editor ignores them.
func (r *PackageRegistry) decode(ctx context.Context, t trace.Tracer, parent uint64, src source) (Syntax, error) {
	data, err := src.read(ctx, r.store)
	if err != nil {
		trace.Fail(t, trace.ScopeResource, src.path, err, parent)
		return Syntax{}, err
	}
	if syn, ok := r.opts.Cache.Lookup(src.path, data); ok {
		trace.Point(t, trace.ScopeDebug, src.path, "cached", parent)
		return syn, nil
	}
	syn, err := DecodeHeader(src.path, data)
	if err != nil {
		trace.Fail(t, trace.ScopeResource, src.path, err, parent)
		return Syntax{}, err
	}
	r.opts.Cache.Put(syn, data)
	trace.Point(t, trace.ScopeResource, src.path, syn.Scope, parent)
	return syn, nil
}

// discover collects archived resources first, then lets loose files replace
// them. The result is sorted by resource path.
func (r *PackageRegistry) discover(ctx context.Context) ([]source, []io.Closer, error) {
	byPath := make(map[string]source)
	var closers []io.Closer

	for _, dir := range r.store.archiveDirs {
		archives, err := filepath.Glob(filepath.Join(dir, "*"+PackageExtension))
		if err != nil {
			return nil, closers, fmt.Errorf("failed to list %q: %w", dir, err)
		}
		sort.Strings(archives)
		for _, archive := range archives {
			if err := ctx.Err(); err != nil {
				return nil, closers, err
			}
			entries, zr, err := archiveSyntaxes(archive)
			if err != nil {
				trace.Fail(trace.FromContext(ctx), trace.ScopeResource, archive, err, trace.CurrentSpan(ctx))
				continue
			}
			closers = append(closers, zr)
			for p, f := range entries {
				// earlier archive directories take precedence
				if _, ok := byPath[p]; !ok {
					byPath[p] = source{path: p, entry: f}
				}
			}
		}
	}

	root := filepath.Join(r.store.dataDir, PackagesDir)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && p == root {
				return fs.SkipDir
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, Extension) {
			return nil
		}
		rel, err := filepath.Rel(r.store.dataDir, p)
		if err != nil {
			return err
		}
		resourcePath := filepath.ToSlash(rel)
		byPath[resourcePath] = source{path: resourcePath, physical: p}
		return nil
	})
	if err != nil {
		return nil, closers, fmt.Errorf("failed to walk %q: %w", root, err)
	}

	sources := make([]source, 0, len(byPath))
	for _, src := range byPath {
		sources = append(sources, src)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].path < sources[j].path })
	return sources, closers, nil
}
