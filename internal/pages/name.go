// internal/pages/name.go
package pages

import (
	"path"
	"path/filepath"
	"strings"
)

// DefaultName is the page name used when nothing more specific can be
// derived from a request path or module id.
const DefaultName = "index"

// FromRequestPath derives a page name from a live request path. The site
// root maps to DefaultName; otherwise the segment immediately following
// pagesDir in a path of shape pagesDir/<name>/... is the page name. Paths
// that do not match that shape fall back to DefaultName, so the result is
// never empty.
func FromRequestPath(pagesDir, requestPath string) string {
	if requestPath == "" || requestPath == "/" {
		return DefaultName
	}

	marker := "/" + strings.Trim(filepath.ToSlash(pagesDir), "/") + "/"
	i := strings.Index(requestPath, marker)
	if i < 0 {
		return DefaultName
	}

	rest := requestPath[i+len(marker):]
	name, _, found := strings.Cut(rest, "/")
	if !found || name == "" {
		return DefaultName
	}
	return name
}

// FromModuleID derives a page name from a bundler module identifier ending
// in the HTML extension: the name of the directory that directly contains
// the HTML file. Build and dev mode must agree on the name for the same
// logical page; only the extraction source differs.
func FromModuleID(id string) string {
	name := path.Base(path.Dir(filepath.ToSlash(id)))
	if name == "" || name == "." || name == "/" {
		return DefaultName
	}
	return name
}
