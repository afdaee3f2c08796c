package main

import (
	"os"
	"path/filepath"
	"testing"
)

const sqlUmbrellaSource = `%YAML 1.2
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

func syntaxSource(name, scope, extra string) string {
	return "%YAML 1.2\n---\nname: " + name + "\nscope: " + scope + "\n" + extra + "contexts:\n  main: []\n"
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// newDataDir lays out an editor data directory with an SQL umbrella.
func newDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	pkgs := filepath.Join(dir, "Packages")
	mustWrite(t, filepath.Join(pkgs, "SQL", "SQL.sublime-syntax"), sqlUmbrellaSource)
	mustWrite(t, filepath.Join(pkgs, "SQL", "MySQL.sublime-syntax"), syntaxSource("MySQL", "source.sql.mysql", ""))
	mustWrite(t, filepath.Join(pkgs, "SQL", "PostgreSQL.sublime-syntax"), syntaxSource("PostgreSQL", "source.sql.postgresql", ""))
	mustWrite(t, filepath.Join(pkgs, "SQL", "Base.sublime-syntax"), syntaxSource("SQL (Base)", "source.sql.base", "hidden: true\n"))
	mustWrite(t, filepath.Join(pkgs, "Python", "Python.sublime-syntax"), syntaxSource("Python", "source.python", ""))
	return dir
}

// newTestSession opens a session over dataDir with a private config file so
// the developer's own configuration never leaks in.
func newTestSession(t *testing.T, dataDir string) *session {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), configFileName)
	mustWrite(t, cfgPath, "ui = \"off\"\n\n[cache]\nenabled = false\n\n[[preset]]\ncaption = \"Set Syntax Dialect: SQL\"\nsyntax_file = \"Packages/SQL/SQL.sublime-syntax\"\n")
	s, err := openSession(sessionOptions{ConfigPath: cfgPath, DataDir: dataDir, Jobs: 2})
	if err != nil {
		t.Fatalf("openSession: %v", err)
	}
	return s
}
