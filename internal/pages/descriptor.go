// internal/pages/descriptor.go
package pages

import "multipage/internal/config"

// Descriptor is the effective configuration for one page, produced fresh on
// every render. It is never cached, so per-page state cannot leak between
// pages or requests.
type Descriptor struct {
	Template  string
	Title     string
	Entry     string
	Filename  string
	URLParams string
	Inject    []string
}

// ResolveDescriptor merges the common defaults with the page's overrides.
// In SPA mode the per-page lookup is skipped entirely. Unknown page names
// yield the common defaults unchanged; this never fails.
func ResolveDescriptor(opts *config.Options, pageName string) Descriptor {
	d := Descriptor{
		Template:  opts.Template,
		Title:     opts.Title,
		Entry:     opts.Entry,
		Filename:  opts.Filename,
		URLParams: opts.URLParams,
		Inject:    opts.Inject,
	}
	if !opts.MPA() {
		return d
	}

	// A missing entry behaves like an empty override. The merge is shallow:
	// a page-level Inject list replaces the default list wholesale.
	over := opts.Pages[pageName]
	if over.Template != "" {
		d.Template = over.Template
	}
	if over.Title != "" {
		d.Title = over.Title
	}
	if over.Entry != "" {
		d.Entry = over.Entry
	}
	if over.Filename != "" {
		d.Filename = over.Filename
	}
	if over.URLParams != "" {
		d.URLParams = over.URLParams
	}
	if over.Inject != nil {
		d.Inject = over.Inject
	}
	return d
}
