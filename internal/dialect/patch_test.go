package dialect

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceTarget(t *testing.T) {
	cases := []struct {
		name   string
		text   string
		target string
		want   string
	}{
		{
			name:   "inline",
			text:   "name: SQL\nextends: Packages/SQL/MySQL.sublime-syntax\nscope: source.sql\n",
			target: "Packages/SQL/TSQL.sublime-syntax",
			want:   "name: SQL\nextends: Packages/SQL/TSQL.sublime-syntax\nscope: source.sql\n",
		},
		{
			name:   "list dash kept",
			text:   "extends:\n  - Packages/SQL/MySQL.sublime-syntax\n",
			target: "Packages/SQL/TSQL.sublime-syntax",
			want:   "extends:\n  - Packages/SQL/TSQL.sublime-syntax\n",
		},
		{
			name:   "spacing kept",
			text:   "extends:    Packages/A.sublime-syntax   # comment\n",
			target: "Packages/B.sublime-syntax",
			want:   "extends:    Packages/B.sublime-syntax   # comment\n",
		},
		{
			name:   "crlf kept",
			text:   "name: SQL\r\nextends: Packages/A.sublime-syntax\r\nscope: source.sql\r\n",
			target: "Packages/B.sublime-syntax",
			want:   "name: SQL\r\nextends: Packages/B.sublime-syntax\r\nscope: source.sql\r\n",
		},
		{
			name:   "dollar is literal",
			text:   "extends: Packages/A.sublime-syntax\n",
			target: "Packages/$1/B.sublime-syntax",
			want:   "extends: Packages/$1/B.sublime-syntax\n",
		},
		{
			name:   "no extends line",
			text:   "name: SQL\n  extends: nested\n",
			target: "Packages/B.sublime-syntax",
			want:   "name: SQL\n  extends: nested\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ReplaceTarget(tc.text, tc.target))
		})
	}
}

func TestPatchRewritesOnlyTarget(t *testing.T) {
	h := sqlHost()
	res, err := h.patcher().Patch(context.Background(), sqlPath, postgresPath)
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.Equal(t, "/data/Packages/SQL/SQL.sublime-syntax", res.Physical)
	assert.Equal(t, 1, h.writes)
	want := strings.Replace(sqlUmbrella, mysqlPath, postgresPath, 1)
	assert.Equal(t, want, h.files[sqlPath])
}

func TestPatchIsIdempotent(t *testing.T) {
	h := sqlHost()
	p := h.patcher()
	ctx := context.Background()

	_, err := p.Patch(ctx, sqlPath, tsqlPath)
	require.NoError(t, err)
	first := h.files[sqlPath]

	res, err := p.Patch(ctx, sqlPath, tsqlPath)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, 1, h.writes)
	assert.Equal(t, first, h.files[sqlPath])
}

func TestPatchRoundTrip(t *testing.T) {
	h := sqlHost()
	p := h.patcher()
	ctx := context.Background()

	for _, target := range []string{postgresPath, tsqlPath, mysqlPath} {
		_, err := p.Patch(ctx, sqlPath, target)
		require.NoError(t, err)
		got, ok := CurrentTarget(h.files[sqlPath])
		require.True(t, ok)
		assert.Equal(t, target, got)
	}
	assert.Equal(t, sqlUmbrella, h.files[sqlPath])
}

func TestPatchAlreadySelectedSkipsWrite(t *testing.T) {
	h := sqlHost()
	res, err := h.patcher().Patch(context.Background(), sqlPath, mysqlPath)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, 0, h.writes)
}

func TestPatchInvalidPaths(t *testing.T) {
	cases := []struct {
		name     string
		umbrella string
		dialect  string
		sentinel error
		message  string
	}{
		{"umbrella", "BadPath", postgresPath, ErrInvalidUmbrella, `"BadPath" is no valid target syntax`},
		{"dialect", sqlPath, "Packages/SQL/Nope.sublime-syntax", ErrInvalidDialect, `"Packages/SQL/Nope.sublime-syntax" is no valid syntax`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := sqlHost()
			before := h.files[sqlPath]

			_, err := h.patcher().Patch(context.Background(), tc.umbrella, tc.dialect)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.sentinel)
			assert.Equal(t, tc.message, err.Error())

			var pathErr *InvalidPathError
			require.True(t, errors.As(err, &pathErr))
			assert.Equal(t, 0, h.writes)
			assert.Equal(t, before, h.files[sqlPath])
		})
	}
}

func TestPatchWriteFailureLeavesContent(t *testing.T) {
	h := sqlHost()
	h.writeErr = errors.New("disk full")

	_, err := h.patcher().Patch(context.Background(), sqlPath, postgresPath)
	assert.EqualError(t, err, "disk full")
	assert.Equal(t, sqlUmbrella, h.files[sqlPath])
}

func TestPatchThenEnumerateMarksNewDialect(t *testing.T) {
	h := sqlHost()
	ctx := context.Background()
	_, err := h.patcher().Patch(ctx, sqlPath, postgresPath)
	require.NoError(t, err)

	umbrella, _, _ := h.Resolve(ctx, sqlPath)
	got, err := Enumerate(ctx, h, h, umbrella)
	require.NoError(t, err)
	idx := SelectedIndex(got)
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, postgresPath, got[idx].Path)
}
