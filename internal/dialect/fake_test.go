package dialect

import (
	"context"
	"fmt"
	"path/filepath"

	"syndial/internal/syntax"
)

// memHost is an in-memory registry, resource store and writer.
type memHost struct {
	syntaxes []syntax.Syntax
	files    map[string]string // resource path -> text
	writes   int
	writeErr error
}

func newMemHost(files map[string]string, syntaxes ...syntax.Syntax) *memHost {
	return &memHost{syntaxes: syntaxes, files: files}
}

func (h *memHost) List(context.Context) ([]syntax.Syntax, error) {
	return append([]syntax.Syntax(nil), h.syntaxes...), nil
}

func (h *memHost) Resolve(_ context.Context, p string) (syntax.Syntax, bool, error) {
	for _, s := range h.syntaxes {
		if s.Path == p {
			return s, true, nil
		}
	}
	return syntax.Syntax{}, false, nil
}

func (h *memHost) LoadText(_ context.Context, p string) (string, error) {
	text, ok := h.files[p]
	if !ok {
		return "", fmt.Errorf("%q: %w", p, syntax.ErrResourceNotFound)
	}
	return text, nil
}

func (h *memHost) PhysicalPath(p string) string {
	return filepath.Join("/data", filepath.FromSlash(p))
}

func (h *memHost) WriteFile(_ context.Context, physical string, data []byte) error {
	if h.writeErr != nil {
		return h.writeErr
	}
	rel, err := filepath.Rel("/data", physical)
	if err != nil {
		return err
	}
	h.files[filepath.ToSlash(rel)] = string(data)
	h.writes++
	return nil
}

func (h *memHost) patcher() *Patcher {
	return &Patcher{Registry: h, Resources: h, Writer: h}
}

const (
	sqlPath      = "Packages/SQL/SQL.sublime-syntax"
	mysqlPath    = "Packages/SQL/MySQL.sublime-syntax"
	postgresPath = "Packages/SQL/PostgreSQL.sublime-syntax"
	tsqlPath     = "Packages/SQL/TSQL.sublime-syntax"
	hiddenPath   = "Packages/SQL/SQL (Base).sublime-syntax"
	pythonPath   = "Packages/Python/Python.sublime-syntax"
	sqliteLike   = "Packages/SQLite/SQLite.sublime-syntax"
)

const sqlUmbrella = `%YAML 1.2
---
name: SQL
scope: source.sql
version: 2

extends: Packages/SQL/MySQL.sublime-syntax

file_extensions:
  - sql
  - ddl
  - dml
`

func sqlHost() *memHost {
	return newMemHost(
		map[string]string{sqlPath: sqlUmbrella},
		syntax.Syntax{Path: mysqlPath, Name: "MySQL", Scope: "source.sql.mysql"},
		syntax.Syntax{Path: postgresPath, Name: "PostgreSQL", Scope: "source.sql.postgresql"},
		syntax.Syntax{Path: hiddenPath, Name: "SQL (Base)", Scope: "source.sql.base", Hidden: true},
		syntax.Syntax{Path: sqlPath, Name: "SQL", Scope: "source.sql"},
		syntax.Syntax{Path: tsqlPath, Name: "T-SQL", Scope: "source.tsql"},
		syntax.Syntax{Path: sqliteLike, Name: "SQLite", Scope: "source.sqlite"},
		syntax.Syntax{Path: pythonPath, Name: "Python", Scope: "source.python"},
	)
}
