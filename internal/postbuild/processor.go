// internal/postbuild/processor.go
package postbuild

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"multipage/internal/config"
	"multipage/internal/pages"
)

// Asset is one emitted output file, identified by its slash-separated path
// relative to the output root. The processor rewrites Path and Text in
// place; the caller owns persisting the result.
type Asset struct {
	Path string
	Text string
}

// Minifier is the external minify collaborator: a pure text transform.
type Minifier func(html string) (string, error)

// Remover deletes one file from the output root. It exists so the stray
// index.html cleanup can be observed in tests and swapped by hosts that
// keep output in memory.
type Remover func(path string) error

// Processor applies the per-document finishing steps to every emitted HTML
// asset: hash tagging, minification, the configured text substitution, and
// relocation to the final path. One Processor serves one build; the shared
// hash token is fixed when the Processor is created.
type Processor struct {
	naming config.BuildNaming
	mpa    bool
	minify Minifier
	remove Remover
	token  string
}

// New creates a Processor for one build. minify may be nil when
// minification is disabled. remove defaults to os.Remove.
func New(naming config.BuildNaming, mpa bool, minify Minifier, remove Remover) *Processor {
	if remove == nil {
		remove = os.Remove
	}
	return &Processor{
		naming: naming,
		mpa:    mpa,
		minify: minify,
		remove: remove,
		token:  strconv.FormatInt(time.Now().UnixMilli(), 36),
	}
}

// Token returns the build-wide cache-busting token.
func (p *Processor) Token() string {
	return p.token
}

// Process runs the finishing pipeline over every HTML asset, then removes a
// stray index.html the host may have left at the output root (MPA only;
// the relocated documents make it redundant there). A failing step is fatal
// for the whole pass; documents already relocated stay relocated.
func (p *Processor) Process(assets []*Asset, outDir string) error {
	for _, a := range assets {
		if !strings.HasSuffix(a.Path, ".html") {
			continue
		}
		if err := p.processOne(a); err != nil {
			return err
		}
	}

	if p.mpa {
		if err := p.remove(filepath.Join(outDir, "index.html")); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("could not remove stray index.html: %w", err)
		}
	}
	return nil
}

func (p *Processor) processOne(a *Asset) error {
	// The emitted path has shape .../<name>/index.html; the directory that
	// contains the document names the page. The configured prefix is
	// concatenated regardless of whether input-key prefixing ran.
	name := pages.FromModuleID(a.Path)
	finalName := p.naming.PrefixName + name

	if p.naming.HTMLHash {
		a.Text = tagReferences(a.Text, p.token)
	}

	if p.minify != nil {
		out, err := p.minify(a.Text)
		if err != nil {
			return fmt.Errorf("minify failed for %s: %w", a.Path, err)
		}
		a.Text = out
	}

	if r := p.naming.Replace; r != nil && r.Find != "" {
		a.Text = strings.ReplaceAll(a.Text, r.Find, r.With)
	}

	switch {
	case !p.mpa:
		// SPA output is always exactly index.html at the root, whatever
		// the move flags say.
		a.Path = "index.html"
	case p.naming.MoveHTMLTop:
		a.Path = finalName + ".html"
	case p.naming.MoveHTMLDirTop:
		a.Path = finalName + "/index.html"
	}
	return nil
}

// tagReferences appends a query-string token to every .js and .css
// substring in the document. This is a deliberate textual substitution, not
// a markup rewrite: text that merely mentions ".js" gets tagged too. Kept
// for compatibility with the established output.
func tagReferences(html, token string) string {
	html = strings.ReplaceAll(html, ".js", ".js?v="+token)
	html = strings.ReplaceAll(html, ".css", ".css?v="+token)
	return html
}
