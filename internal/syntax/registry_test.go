package syntax

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"syndial/internal/trace"
)

func newTestDataDir(t *testing.T) string {
	t.Helper()
	dataDir := t.TempDir()
	pkgs := filepath.Join(dataDir, "Packages")
	writeFile(t, filepath.Join(pkgs, "SQL", "SQL.sublime-syntax"), definition("SQL", "source.sql", "extends: Packages/SQL/MySQL.sublime-syntax\n"))
	writeFile(t, filepath.Join(pkgs, "SQL", "MySQL.sublime-syntax"), definition("MySQL", "source.sql.mysql", ""))
	writeFile(t, filepath.Join(pkgs, "SQL", "Base.sublime-syntax"), definition("SQL (Base)", "source.sql.base", "hidden: true\n"))
	writeFile(t, filepath.Join(pkgs, "Broken", "Broken.sublime-syntax"), "name: [unclosed\n")
	writeFile(t, filepath.Join(pkgs, "SQL", "README.md"), "not a syntax")
	writeArchive(t, filepath.Join(dataDir, InstalledPackagesDir, "SQL.sublime-package"), map[string]string{
		"SQL.sublime-syntax":        definition("SQL (archived)", "source.sql", ""),
		"PostgreSQL.sublime-syntax": definition("PostgreSQL", "source.sql.postgresql", ""),
	})
	writeArchive(t, filepath.Join(dataDir, InstalledPackagesDir, "Python.sublime-package"), map[string]string{
		"Python.sublime-syntax": definition("Python", "source.python", ""),
	})
	return dataDir
}

func TestPackageRegistryList(t *testing.T) {
	dataDir := newTestDataDir(t)
	reg := NewPackageRegistry(NewPackageStore(dataDir), RegistryOptions{Jobs: 2})

	got, err := reg.List(context.Background())
	require.NoError(t, err)

	want := []Syntax{
		{Path: "Packages/Python/Python.sublime-syntax", Name: "Python", Scope: "source.python"},
		{Path: "Packages/SQL/Base.sublime-syntax", Name: "SQL (Base)", Scope: "source.sql.base", Hidden: true},
		{Path: "Packages/SQL/MySQL.sublime-syntax", Name: "MySQL", Scope: "source.sql.mysql"},
		{Path: "Packages/SQL/PostgreSQL.sublime-syntax", Name: "PostgreSQL", Scope: "source.sql.postgresql"},
		{Path: "Packages/SQL/SQL.sublime-syntax", Name: "SQL", Scope: "source.sql"},
	}
	assert.Equal(t, want, got)
}

func TestPackageRegistryResolve(t *testing.T) {
	dataDir := newTestDataDir(t)
	reg := NewPackageRegistry(NewPackageStore(dataDir), RegistryOptions{})
	ctx := context.Background()

	syn, ok, err := reg.Resolve(ctx, "Packages/SQL/PostgreSQL.sublime-syntax")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "PostgreSQL", syn.Name)

	_, ok, err = reg.Resolve(ctx, "BadPath")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = reg.Resolve(ctx, "Packages/Broken/Broken.sublime-syntax")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPackageRegistryMissingDataDir(t *testing.T) {
	reg := NewPackageRegistry(NewPackageStore(filepath.Join(t.TempDir(), "absent")), RegistryOptions{})
	got, err := reg.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPackageRegistryUsesHeaderCache(t *testing.T) {
	dataDir := newTestDataDir(t)
	cacheDir := filepath.Join(t.TempDir(), "cache")

	cache, err := OpenHeaderCache(cacheDir)
	require.NoError(t, err)
	first, err := NewPackageRegistry(NewPackageStore(dataDir), RegistryOptions{Cache: cache}).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(first), cache.Len())

	reopened, err := OpenHeaderCache(cacheDir)
	require.NoError(t, err)
	assert.Equal(t, len(first), reopened.Len())

	second, err := NewPackageRegistry(NewPackageStore(dataDir), RegistryOptions{Cache: reopened}).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPackageRegistryReportsProgress(t *testing.T) {
	dataDir := newTestDataDir(t)
	var (
		mu     sync.Mutex
		events []ScanEvent
	)
	reg := NewPackageRegistry(NewPackageStore(dataDir), RegistryOptions{
		Jobs: 3,
		Progress: func(ev ScanEvent) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, ev)
		},
	})

	_, err := reg.List(context.Background())
	require.NoError(t, err)

	// initial event plus one per resource: four loose files, two archived ones
	// not shadowed by a loose file
	require.Len(t, events, 7)
	assert.Equal(t, ScanEvent{Total: 6}, events[0])

	var failed []string
	maxDone := 0
	for _, ev := range events[1:] {
		assert.Equal(t, 6, ev.Total)
		maxDone = max(maxDone, ev.Done)
		if ev.Err != nil {
			failed = append(failed, ev.Path)
		}
	}
	assert.Equal(t, 6, maxDone)
	assert.Equal(t, []string{"Packages/Broken/Broken.sublime-syntax"}, failed)
}

func TestPackageRegistryReadsLooseFilesThroughStore(t *testing.T) {
	dataDir := newTestDataDir(t)
	store := NewPackageStore(dataDir)
	reg := NewPackageRegistry(store, RegistryOptions{})
	ctx := context.Background()

	const resourcePath = "Packages/SQL/MySQL.sublime-syntax"
	src := source{path: resourcePath, physical: store.PhysicalPath(resourcePath)}
	data, err := src.read(ctx, store)
	require.NoError(t, err)
	text, err := store.LoadText(ctx, resourcePath)
	require.NoError(t, err)
	assert.Equal(t, text, string(data))

	gone := source{path: "Packages/SQL/Gone.sublime-syntax", physical: store.PhysicalPath("Packages/SQL/Gone.sublime-syntax")}
	_, err = reg.decode(ctx, trace.Nop, 0, gone)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}
