// internal/pages/template.go
package pages

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"multipage/internal/config"
)

// ErrNoInput is returned in only-post-process mode when the host resolved
// no input for the page. The page cannot proceed without a source; other
// pages are unaffected.
var ErrNoInput = errors.New("no bundler input for page")

// ResolveTemplate picks the template file for one page. The priority is
// fixed: the host-resolved input (only-post-process mode) beats an explicit
// per-page override, which beats the MPA directory convention, which beats
// the bare root index.html. Explicit configuration beats convention beats
// default; the order of the last three steps must not change.
//
// inputs is the host's resolved entry-input mapping, consulted only in
// only-post-process mode.
func ResolveTemplate(root string, opts *config.Options, d Descriptor, res Resolution, inputs map[string]string) (string, error) {
	if opts.OnlyPostProcess {
		in, ok := inputs[res.Name]
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrNoInput, res.Name)
		}
		return in, nil
	}

	if d.Template != "" {
		return filepath.Join(root, d.Template), nil
	}

	if opts.MPA() {
		pub := filepath.Join(root, "public", "index.html")
		if !res.Build {
			// Dev serve uses the conventional location unconditionally; a
			// missing file surfaces at render time.
			return pub, nil
		}
		if fileExists(pub) {
			return pub, nil
		}
		return filepath.Join(root, "index.html"), nil
	}

	return filepath.Join(root, "index.html"), nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
