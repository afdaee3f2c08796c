package dialect

import (
	"context"
	"regexp"
	"strings"

	"syndial/internal/syntax"
	"syndial/internal/trace"
)

// FileWriter overwrites a file on disk.
type FileWriter interface {
	WriteFile(ctx context.Context, physical string, data []byte) error
}

var extendsLine = regexp.MustCompile(`(?m)(^extends:\s+(?:-\s+)?)\S+`)

// ReplaceTarget points every anchored extends: line of text at target. The
// prefix, including an optional list dash, and every other byte are kept.
func ReplaceTarget(text, target string) string {
	return extendsLine.ReplaceAllString(text, "${1}"+strings.ReplaceAll(target, "$", "$$"))
}

// Result describes a finished patch.
type Result struct {
	Umbrella syntax.Syntax
	Dialect  syntax.Syntax
	Physical string // file written, or that would have been written
	Changed  bool   // false when the umbrella already extended Dialect
}

// Patcher rewrites the extends: target of umbrella syntaxes.
type Patcher struct {
	Registry  Registry
	Resources Resources
	Writer    FileWriter
}

// Patch points umbrellaPath at dialectPath. Invalid paths return an
// *InvalidPathError before anything is read or written. When the text would
// not change, nothing is written.
func (p *Patcher) Patch(ctx context.Context, umbrellaPath, dialectPath string) (Result, error) {
	t := trace.FromContext(ctx)
	span := trace.Begin(t, trace.ScopeStep, "patch", trace.CurrentSpan(ctx))

	fail := func(err error) (Result, error) {
		trace.Fail(t, trace.ScopeStep, "patch", err, span.ID())
		span.End("failed")
		return Result{}, err
	}

	umbrella, ok, err := p.Registry.Resolve(ctx, umbrellaPath)
	if err != nil {
		return fail(err)
	}
	if !ok {
		return fail(&InvalidPathError{Role: RoleUmbrella, Path: umbrellaPath})
	}

	dialect, ok, err := p.Registry.Resolve(ctx, dialectPath)
	if err != nil {
		return fail(err)
	}
	if !ok {
		return fail(&InvalidPathError{Role: RoleDialect, Path: dialectPath})
	}

	oldText, err := p.Resources.LoadText(ctx, umbrella.Path)
	if err != nil {
		return fail(err)
	}
	newText := ReplaceTarget(oldText, dialect.Path)

	res := Result{
		Umbrella: umbrella,
		Dialect:  dialect,
		Physical: p.Resources.PhysicalPath(umbrella.Path),
	}
	// unchanged text is never written back
	if newText == oldText {
		span.End("unchanged")
		return res, nil
	}

	if err := p.Writer.WriteFile(ctx, res.Physical, []byte(newText)); err != nil {
		return fail(err)
	}
	res.Changed = true
	span.WithExtra("dialect", dialect.Path).End("written")
	return res, nil
}
