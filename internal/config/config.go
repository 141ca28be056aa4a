// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options holds the whole plugin configuration. It is assembled once, either
// programmatically or from a multipage.yaml file, and treated as read-only
// afterwards. The per-page pipeline never writes back into it.
type Options struct {
	// PagesDir is the directory that holds one subdirectory per page,
	// relative to the project root.
	PagesDir string `yaml:"pagesDir"`

	// Pages maps a page name to its overrides. A nil or empty map puts the
	// whole project into single-page (SPA) mode.
	Pages map[string]PageOverride `yaml:"pages"`

	// Common per-page defaults. In SPA mode these are the only page fields;
	// in MPA mode an entry in Pages overrides them field by field.
	Template  string   `yaml:"template"`
	Title     string   `yaml:"title"`
	Entry     string   `yaml:"entry"`
	Filename  string   `yaml:"filename"`
	URLParams string   `yaml:"urlParams"`
	Inject    []string `yaml:"inject"`

	// InjectTarget is the marker the renderer inserts Inject snippets in
	// front of. Defaults to "</head>".
	InjectTarget string `yaml:"injectTarget"`

	// Minify enables the HTML minify step during post-processing.
	Minify bool `yaml:"minify"`

	// AutoAddEntry appends a module script tag for the page entry when the
	// rendered document does not reference it already.
	AutoAddEntry bool `yaml:"autoAddEntry"`

	// OnlyPostProcess disables template resolution and virtual HTML
	// generation; the plugin then only renames and rewrites whatever HTML
	// the host resolved on its own.
	OnlyPostProcess bool `yaml:"onlyPostProcess"`

	// Unsafe disables sanitization of markdown page bodies.
	Unsafe bool `yaml:"unsafe"`

	Build BuildNaming `yaml:"build"`
}

// PageOverride carries the optional per-page fields. Unset fields fall back
// to the common defaults in Options, never to another page's values.
type PageOverride struct {
	Template  string   `yaml:"template"`
	Title     string   `yaml:"title"`
	Entry     string   `yaml:"entry"`
	Filename  string   `yaml:"filename"`
	URLParams string   `yaml:"urlParams"`
	Inject    []string `yaml:"inject"`
}

// BuildNaming groups the independent output-naming knobs. The two move
// flags are mutually exclusive; when both are set MoveHTMLTop wins.
type BuildNaming struct {
	MoveHTMLTop    bool   `yaml:"moveHtmlTop"`
	MoveHTMLDirTop bool   `yaml:"moveHtmlDirTop"`
	PrefixName     string `yaml:"prefixName"`
	HTMLHash       bool   `yaml:"htmlHash"`
	AssetDir       string `yaml:"assetDir"`
	ChunkDir       string `yaml:"chunkDir"`
	EntryDir       string `yaml:"entryDir"`

	// Replace, when present, is applied as one global textual substitution
	// over every finished HTML document.
	Replace *Replacement `yaml:"replace"`
}

// Replacement is a literal search/replace pair.
type Replacement struct {
	Find string `yaml:"find"`
	With string `yaml:"with"`
}

// MPA reports whether the project runs in multi-page mode. SPA mode is the
// absence of any configured page.
func (o *Options) MPA() bool {
	return len(o.Pages) > 0
}

// Defaults returns the options every project starts from before user
// configuration is merged on top.
func Defaults() Options {
	return Options{
		PagesDir:     "src/pages",
		InjectTarget: "</head>",
	}
}

// Load reads and parses a yaml options file, layering it over Defaults.
func Load(path string) (Options, error) {
	opts := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	if opts.PagesDir == "" {
		opts.PagesDir = Defaults().PagesDir
	}
	if opts.InjectTarget == "" {
		opts.InjectTarget = Defaults().InjectTarget
	}

	return opts, nil
}
