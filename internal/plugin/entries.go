// internal/plugin/entries.go
package plugin

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"multipage/internal/config"
	"multipage/internal/naming"
	"multipage/internal/pages"
)

// Inputs builds the host's entry-input mapping: page name to the on-disk
// HTML id for that page. SPA projects have exactly one input, the root
// index.html.
func Inputs(root string, opts *config.Options) map[string]string {
	inputs := make(map[string]string)
	if !opts.MPA() {
		inputs[pages.DefaultName] = filepath.Join(root, "index.html")
		return inputs
	}
	for name := range opts.Pages {
		inputs[name] = filepath.Join(root, opts.PagesDir, name, "index.html")
	}
	return inputs
}

// EntryPoints derives the bundler entry list from the input mapping plus
// each page's entry script. HTML entries keep an output path mirroring
// their source location so the emitted document stays nested under its
// page directory, which is what post-processing derives the page name
// from. Script entry keys are prefixed for production builds.
func EntryPoints(root string, opts *config.Options, inputs map[string]string, production bool) []api.EntryPoint {
	var eps []api.EntryPoint

	for _, name := range sortedKeys(inputs) {
		htmlPath := inputs[name]
		rel, err := filepath.Rel(root, htmlPath)
		if err != nil {
			rel = htmlPath
		}
		eps = append(eps, api.EntryPoint{
			InputPath:  htmlPath,
			OutputPath: strings.TrimSuffix(filepath.ToSlash(rel), ".html"),
		})
	}

	scripts := make(map[string]string)
	for _, name := range sortedKeys(inputs) {
		d := pages.ResolveDescriptor(opts, name)
		if d.Entry != "" {
			scripts[name] = filepath.Join(root, d.Entry)
		}
	}
	scripts = naming.PrefixInputs(scripts, opts.Build.PrefixName, production)
	for _, key := range sortedKeys(scripts) {
		eps = append(eps, api.EntryPoint{InputPath: scripts[key], OutputPath: key})
	}

	return eps
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
