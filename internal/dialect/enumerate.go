package dialect

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"syndial/internal/syntax"
	"syndial/internal/trace"
)

// Registry lists and resolves registered syntaxes.
type Registry interface {
	List(ctx context.Context) ([]syntax.Syntax, error)
	Resolve(ctx context.Context, resourcePath string) (syntax.Syntax, bool, error)
}

// Resources loads resource text and maps resource paths to files on disk.
type Resources interface {
	LoadText(ctx context.Context, resourcePath string) (string, error)
	PhysicalPath(resourcePath string) string
}

// Only the first extends: line counts; further list entries are ignored.
var extendsTarget = regexp.MustCompile(`(?m)^extends:\s+(?:-\s+)?(\S+)`)

// Kind marks whether a candidate is the umbrella's current dialect.
type Kind uint8

const (
	KindAmbiguous Kind = iota
	KindSelected
)

// Symbol is the one-character marker shown next to a candidate.
func (k Kind) Symbol() string {
	if k == KindSelected {
		return "✓"
	}
	return ""
}

// Label is the word shown next to a candidate.
func (k Kind) Label() string {
	if k == KindSelected {
		return "Selected"
	}
	return ""
}

// Candidate is one dialect the umbrella can be pointed at.
type Candidate struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Kind Kind   `json:"-"`
}

// Selected reports whether the umbrella currently extends this candidate.
func (c Candidate) Selected() bool {
	return c.Kind == KindSelected
}

// FilterScope returns the first two dot-separated segments of scope.
func FilterScope(scope string) (string, error) {
	segments := strings.Split(scope, ".")
	if len(segments) < 2 {
		return "", fmt.Errorf("%q: %w", scope, ErrMalformedScope)
	}
	return segments[0] + "." + segments[1], nil
}

// CurrentTarget returns the path named by the first extends: line of text.
func CurrentTarget(text string) (string, bool) {
	m := extendsTarget.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Enumerate lists the dialect candidates of umbrella in registry order.
// It fails with ErrMalformedScope before touching any resource when the
// umbrella's scope has fewer than two segments.
func Enumerate(ctx context.Context, registry Registry, resources Resources, umbrella syntax.Syntax) ([]Candidate, error) {
	t := trace.FromContext(ctx)
	span := trace.Begin(t, trace.ScopeStep, "enumerate", trace.CurrentSpan(ctx))

	filter, err := FilterScope(umbrella.Scope)
	if err != nil {
		err = fmt.Errorf("%s: %w", umbrella.Path, err)
		trace.Fail(t, trace.ScopeStep, "enumerate", err, span.ID())
		span.End("failed")
		return nil, err
	}

	text, err := resources.LoadText(ctx, umbrella.Path)
	if err != nil {
		span.End("failed")
		return nil, err
	}

	var selected string
	if target, ok := CurrentTarget(text); ok {
		syn, found, err := registry.Resolve(ctx, target)
		if err != nil {
			span.End("failed")
			return nil, err
		}
		if found {
			selected = syn.Path
		}
		trace.Point(t, trace.ScopeResource, "extends", target, span.ID())
	}

	all, err := registry.List(ctx)
	if err != nil {
		span.End("failed")
		return nil, err
	}

	var candidates []Candidate
	for _, syn := range all {
		if syn.Hidden {
			continue
		}
		if syn.Path == umbrella.Path {
			continue
		}
		if !strings.HasPrefix(syn.Scope, filter) {
			continue
		}
		kind := KindAmbiguous
		if selected != "" && syn.Path == selected {
			kind = KindSelected
		}
		candidates = append(candidates, Candidate{Name: syn.Name, Path: syn.Path, Kind: kind})
	}

	span.WithExtra("filter", filter).
		WithExtra("candidates", strconv.Itoa(len(candidates))).
		End("")
	return candidates, nil
}

// SelectedIndex returns the index of the selected candidate, or -1.
func SelectedIndex(candidates []Candidate) int {
	for i, c := range candidates {
		if c.Selected() {
			return i
		}
	}
	return -1
}
