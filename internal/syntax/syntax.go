package syntax

import (
	"errors"
	"path"
	"strings"
)

// Extension is the file suffix of syntax definitions.
const Extension = ".sublime-syntax"

// PackagesDir is the first segment of every resource path.
const PackagesDir = "Packages"

// ErrResourceNotFound is returned when a resource path has no backing file.
var ErrResourceNotFound = errors.New("resource not found")

// Syntax is one registered syntax definition.
type Syntax struct {
	Path   string `json:"path"`
	Name   string `json:"name"`
	Scope  string `json:"scope"`
	Hidden bool   `json:"hidden,omitempty"`
}

// IsSyntaxPath reports whether p names a syntax definition resource.
func IsSyntaxPath(p string) bool {
	return strings.HasPrefix(p, PackagesDir+"/") && strings.HasSuffix(p, Extension)
}

// DefaultName is the display name used when a header declares none.
func DefaultName(resourcePath string) string {
	return strings.TrimSuffix(path.Base(resourcePath), Extension)
}

// splitResource returns the package name and the path inside the package.
func splitResource(resourcePath string) (pkg, rest string, ok bool) {
	trimmed, found := strings.CutPrefix(resourcePath, PackagesDir+"/")
	if !found {
		return "", "", false
	}
	pkg, rest, found = strings.Cut(trimmed, "/")
	if !found || pkg == "" || rest == "" {
		return "", "", false
	}
	return pkg, rest, true
}

// cleanResource normalizes separators and rejects paths escaping Packages.
func cleanResource(p string) (string, bool) {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	if p == "" {
		return "", false
	}
	cleaned := path.Clean(p)
	if cleaned != p || !strings.HasPrefix(cleaned, PackagesDir+"/") {
		return "", false
	}
	return cleaned, true
}
