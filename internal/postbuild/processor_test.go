// internal/postbuild/processor_test.go
package postbuild

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multipage/internal/config"
)

// noRemove stands in for the filesystem during tests.
func noRemove(path string) error { return fs.ErrNotExist }

func TestProcessMoveHTMLTop(t *testing.T) {
	p := New(config.BuildNaming{MoveHTMLTop: true}, true, nil, noRemove)
	a := &Asset{Path: "views/foo/index.html", Text: "<html></html>"}

	require.NoError(t, p.Process([]*Asset{a}, "dist"))
	assert.Equal(t, "foo.html", a.Path)
}

func TestProcessMoveHTMLDirTop(t *testing.T) {
	p := New(config.BuildNaming{MoveHTMLDirTop: true}, true, nil, noRemove)
	a := &Asset{Path: "views/foo/index.html", Text: "<html></html>"}

	require.NoError(t, p.Process([]*Asset{a}, "dist"))
	assert.Equal(t, "foo/index.html", a.Path)
}

func TestProcessMPAWithoutMoveFlagsKeepsPath(t *testing.T) {
	p := New(config.BuildNaming{}, true, nil, noRemove)
	a := &Asset{Path: "views/foo/index.html", Text: "<html></html>"}

	require.NoError(t, p.Process([]*Asset{a}, "dist"))
	assert.Equal(t, "views/foo/index.html", a.Path)
}

func TestProcessSPAAlwaysRootIndex(t *testing.T) {
	for _, orig := range []string{"views/foo/index.html", "index.html", "a/b/c/page.html"} {
		p := New(config.BuildNaming{MoveHTMLTop: true, MoveHTMLDirTop: true}, false, nil, noRemove)
		a := &Asset{Path: orig, Text: "<html></html>"}

		require.NoError(t, p.Process([]*Asset{a}, "dist"))
		assert.Equal(t, "index.html", a.Path, "original path %q", orig)
	}
}

func TestProcessPrefixConcatenation(t *testing.T) {
	p := New(config.BuildNaming{MoveHTMLTop: true, PrefixName: "app-"}, true, nil, noRemove)
	a := &Asset{Path: "views/foo/index.html", Text: "<html></html>"}

	require.NoError(t, p.Process([]*Asset{a}, "dist"))
	assert.Equal(t, "app-foo.html", a.Path)
}

func TestProcessHashTagging(t *testing.T) {
	p := New(config.BuildNaming{HTMLHash: true}, true, nil, noRemove)
	a := &Asset{
		Path: "views/foo/index.html",
		Text: `<script src="main.js"></script><link href="app.css">`,
	}

	require.NoError(t, p.Process([]*Asset{a}, "dist"))

	token := p.Token()
	assert.Contains(t, a.Text, "main.js?v="+token)
	assert.Contains(t, a.Text, "app.css?v="+token)
}

func TestProcessHashTaggingIsTextual(t *testing.T) {
	// The substitution is blind: prose mentioning the extension gets
	// tagged too. Established behavior, kept as-is.
	p := New(config.BuildNaming{HTMLHash: true}, true, nil, noRemove)
	a := &Asset{Path: "views/foo/index.html", Text: "<p>edit main.js to begin</p>"}

	require.NoError(t, p.Process([]*Asset{a}, "dist"))
	assert.Contains(t, a.Text, "main.js?v="+p.Token())
}

func TestProcessSharedTokenAcrossDocuments(t *testing.T) {
	p := New(config.BuildNaming{HTMLHash: true}, true, nil, noRemove)
	one := &Asset{Path: "views/a/index.html", Text: `<script src="a.js"></script>`}
	two := &Asset{Path: "views/b/index.html", Text: `<script src="b.js"></script>`}

	require.NoError(t, p.Process([]*Asset{one, two}, "dist"))

	token := p.Token()
	assert.Contains(t, one.Text, "a.js?v="+token)
	assert.Contains(t, two.Text, "b.js?v="+token)
}

func TestProcessReplacePair(t *testing.T) {
	b := config.BuildNaming{Replace: &config.Replacement{Find: "__BASE__", With: "/static"}}
	p := New(b, true, nil, noRemove)
	a := &Asset{Path: "views/foo/index.html", Text: `<img src="__BASE__/a.png"><img src="__BASE__/b.png">`}

	require.NoError(t, p.Process([]*Asset{a}, "dist"))
	assert.Equal(t, `<img src="/static/a.png"><img src="/static/b.png">`, a.Text)
}

func TestProcessReplaceIdempotentOnCleanText(t *testing.T) {
	b := config.BuildNaming{Replace: &config.Replacement{Find: "__BASE__", With: "/static"}}
	p := New(b, true, nil, noRemove)
	a := &Asset{Path: "views/foo/index.html", Text: `<img src="/static/a.png">`}

	before := a.Text
	require.NoError(t, p.Process([]*Asset{a}, "dist"))
	require.NoError(t, p.Process([]*Asset{a}, "dist"))
	assert.Equal(t, before, a.Text)
}

func TestProcessMinifyFailureIsFatal(t *testing.T) {
	boom := errors.New("boom")
	p := New(config.BuildNaming{}, true, func(string) (string, error) { return "", boom }, noRemove)
	a := &Asset{Path: "views/foo/index.html", Text: "<html></html>"}

	err := p.Process([]*Asset{a}, "dist")
	assert.ErrorIs(t, err, boom)
}

func TestProcessMinifyApplied(t *testing.T) {
	p := New(config.BuildNaming{}, true, func(s string) (string, error) {
		return strings.ReplaceAll(s, "  ", ""), nil
	}, noRemove)
	a := &Asset{Path: "views/foo/index.html", Text: "<html>  </html>"}

	require.NoError(t, p.Process([]*Asset{a}, "dist"))
	assert.Equal(t, "<html></html>", a.Text)
}

func TestProcessSkipsNonHTML(t *testing.T) {
	p := New(config.BuildNaming{MoveHTMLTop: true}, true, nil, noRemove)
	a := &Asset{Path: "assets/app.js", Text: "console.log(1)"}

	require.NoError(t, p.Process([]*Asset{a}, "dist"))
	assert.Equal(t, "assets/app.js", a.Path)
	assert.Equal(t, "console.log(1)", a.Text)
}

func TestProcessStrayRootIndexCleanup(t *testing.T) {
	var removed []string
	remove := func(path string) error {
		removed = append(removed, path)
		return nil
	}

	p := New(config.BuildNaming{MoveHTMLTop: true}, true, nil, remove)
	require.NoError(t, p.Process(nil, "dist"))
	require.Len(t, removed, 1)
	assert.True(t, strings.HasSuffix(removed[0], "index.html"))

	// SPA projects keep their root index.html.
	removed = nil
	p = New(config.BuildNaming{}, false, nil, remove)
	require.NoError(t, p.Process(nil, "dist"))
	assert.Empty(t, removed)
}

func TestProcessOrderHashThenMinifyThenReplace(t *testing.T) {
	// The replace pair sees the hash-tagged text, so a pair targeting the
	// tagged form works.
	p := New(config.BuildNaming{
		HTMLHash: true,
		Replace:  &config.Replacement{Find: ".js?v=", With: ".js?cache="},
	}, true, nil, noRemove)
	a := &Asset{Path: "views/foo/index.html", Text: `<script src="main.js"></script>`}

	require.NoError(t, p.Process([]*Asset{a}, "dist"))
	assert.Contains(t, a.Text, "main.js?cache="+p.Token())
}
