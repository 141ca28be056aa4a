// internal/server/server_test.go
package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multipage/internal/config"
	"multipage/internal/render"
)

func devServer(t *testing.T, opts *config.Options) (*httptest.Server, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "public"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "public", "index.html"),
		[]byte(`<html><head><title>default</title></head><body><p>hello</p></body></html>`), 0644))

	srv := httptest.NewServer(transformWrapper(Handler(root, opts, render.HTMLRenderer{}, nil)))
	t.Cleanup(srv.Close)
	return srv, root
}

func get(t *testing.T, srv *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestRequestResolvesPageAndInjectsReload(t *testing.T) {
	// End to end: request path -> page name -> descriptor -> MPA default
	// template -> rendered content -> host transform.
	opts := config.Options{
		PagesDir:     "src/views",
		InjectTarget: "</head>",
		Pages: map[string]config.PageOverride{
			"foo": {Title: "Foo"},
		},
	}

	srv, _ := devServer(t, &opts)
	status, body := get(t, srv, "/src/views/foo/index.html")

	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<title>Foo</title>")
	assert.Contains(t, body, "<p>hello</p>")
	// The transform step appended the live-reload client.
	assert.Contains(t, body, "new WebSocket")
}

func TestRootRequestServesIndexPage(t *testing.T) {
	opts := config.Options{
		PagesDir:     "src/views",
		InjectTarget: "</head>",
		Pages: map[string]config.PageOverride{
			"index": {Title: "Home"},
			"foo":   {Title: "Foo"},
		},
	}

	srv, _ := devServer(t, &opts)
	status, body := get(t, srv, "/")

	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<title>Home</title>")
}

func TestUnknownPageGetsCommonDefaults(t *testing.T) {
	opts := config.Options{
		PagesDir:     "src/views",
		InjectTarget: "</head>",
		Title:        "Site",
		Pages: map[string]config.PageOverride{
			"foo": {Title: "Foo"},
		},
	}

	srv, _ := devServer(t, &opts)
	status, body := get(t, srv, "/src/views/other/index.html")

	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<title>Site</title>")
}

func TestMissingTemplateAnswersError(t *testing.T) {
	opts := config.Options{
		PagesDir:     "src/views",
		InjectTarget: "</head>",
		Pages: map[string]config.PageOverride{
			"foo": {Template: "missing/tpl.html"},
		},
	}

	srv, _ := devServer(t, &opts)
	status, _ := get(t, srv, "/src/views/foo/index.html")
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestStaticAssetsBypassPipeline(t *testing.T) {
	opts := config.Options{
		PagesDir:     "src/views",
		InjectTarget: "</head>",
		Pages:        map[string]config.PageOverride{"foo": {}},
	}

	srv, root := devServer(t, &opts)
	require.NoError(t, os.WriteFile(filepath.Join(root, "app.css"), []byte("body{}"), 0644))

	status, body := get(t, srv, "/app.css")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "body{}", body)
	assert.NotContains(t, body, "WebSocket")
}
