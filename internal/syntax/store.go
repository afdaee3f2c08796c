package syntax

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
)

// InstalledPackagesDir holds the zipped packages of a data directory.
const InstalledPackagesDir = "Installed Packages"

// PackageExtension is the suffix of zipped packages.
const PackageExtension = ".sublime-package"

// PackageStore loads resource text and maps resource paths onto disk.
type PackageStore struct {
	fs          afs.Service
	dataDir     string
	archiveDirs []string
}

// NewPackageStore returns a store rooted at dataDir. Archives are looked up in
// <dataDir>/Installed Packages first, then in extra archive directories in order.
func NewPackageStore(dataDir string, archiveDirs ...string) *PackageStore {
	dirs := make([]string, 0, len(archiveDirs)+1)
	dirs = append(dirs, filepath.Join(dataDir, InstalledPackagesDir))
	dirs = append(dirs, archiveDirs...)
	return &PackageStore{
		fs:          afs.New(),
		dataDir:     dataDir,
		archiveDirs: dirs,
	}
}

// DataDir returns the directory resource paths are resolved against.
func (s *PackageStore) DataDir() string {
	return s.dataDir
}

// PhysicalPath maps a resource path to its on-disk override location.
func (s *PackageStore) PhysicalPath(resourcePath string) string {
	return filepath.Join(s.dataDir, filepath.FromSlash(resourcePath))
}

// LoadText returns the full text of a resource. A loose file wins over an
// archived entry with the same path.
func (s *PackageStore) LoadText(ctx context.Context, resourcePath string) (string, error) {
	data, err := s.load(ctx, resourcePath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *PackageStore) load(ctx context.Context, resourcePath string) ([]byte, error) {
	cleaned, ok := cleanResource(resourcePath)
	if !ok {
		return nil, fmt.Errorf("%q: %w", resourcePath, ErrResourceNotFound)
	}
	physical := s.PhysicalPath(cleaned)
	exists, err := s.fs.Exists(ctx, physical)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %q: %w", physical, err)
	}
	if exists {
		return s.readLoose(ctx, physical)
	}

	pkg, rest, ok := splitResource(cleaned)
	if !ok {
		return nil, fmt.Errorf("%q: %w", resourcePath, ErrResourceNotFound)
	}
	for _, dir := range s.archiveDirs {
		archive := filepath.Join(dir, pkg+PackageExtension)
		data, found, err := readArchiveEntry(archive, rest)
		if err != nil {
			return nil, err
		}
		if found {
			return data, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", resourcePath, ErrResourceNotFound)
}

// readLoose reads an extracted resource file through the afs service.
func (s *PackageStore) readLoose(ctx context.Context, physical string) ([]byte, error) {
	data, err := s.fs.DownloadWithURL(ctx, physical)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", physical, err)
	}
	return data, nil
}

// WriteFile overwrites the file at physical with data in one write.
// Parent directories are created so archived packages gain a loose override.
func (s *PackageStore) WriteFile(ctx context.Context, physical string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(physical), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %q: %w", physical, err)
	}
	if err := s.fs.Upload(ctx, physical, 0o644, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %q: %w", physical, err)
	}
	return nil
}

// readArchiveEntry reads one entry of a zipped package. A missing archive is
// not an error.
func readArchiveEntry(archive, entry string) ([]byte, bool, error) {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to open %q: %w", archive, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != entry {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, false, fmt.Errorf("failed to open %s in %q: %w", entry, archive, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, false, fmt.Errorf("failed to read %s in %q: %w", entry, archive, err)
		}
		return data, true, nil
	}
	return nil, false, nil
}

// archiveSyntaxes lists the syntax entries of a zipped package as resource paths.
func archiveSyntaxes(archive string) (map[string]*zip.File, *zip.ReadCloser, error) {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %q: %w", archive, err)
	}
	pkg := strings.TrimSuffix(filepath.Base(archive), PackageExtension)
	entries := make(map[string]*zip.File)
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(f.Name, Extension) {
			continue
		}
		entries[PackagesDir+"/"+pkg+"/"+f.Name] = f
	}
	return entries, zr, nil
}
