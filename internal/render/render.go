// internal/render/render.go
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"os"
	"regexp"
	"strings"

	"multipage/internal/pages"
)

// ErrMissingTemplate is returned when the resolved template path does not
// exist on disk. The error is fatal for that page's render: a dev request
// answers with an error response, a build fails that module.
var ErrMissingTemplate = errors.New("template file does not exist")

// Input carries everything one render needs. It is assembled per call; the
// renderer holds no per-page state.
type Input struct {
	Root         string
	PagesDir     string
	Resolution   pages.Resolution
	Descriptor   pages.Descriptor
	TemplatePath string
	IsMPA        bool
	AutoAddEntry bool
	InjectTarget string
	BaseHref     string
	URL          string
	Unsafe       bool
}

// Renderer turns a template plus page data into markup. Implementations
// must be idempotent for identical inputs.
type Renderer interface {
	Render(in Input) (string, error)
}

// PageData is the value handed to the Go template.
type PageData struct {
	Name      string
	Title     string
	Content   template.HTML
	BaseHref  string
	URL       string
	URLParams string
	Params    map[string]interface{}
}

// HTMLRenderer is the default render collaborator. It executes the
// template with html/template, fills the title, applies the configured
// inject snippets, and optionally appends the page's entry script.
type HTMLRenderer struct{}

var titleTag = regexp.MustCompile(`<title>.*?</title>`)

func (HTMLRenderer) Render(in Input) (string, error) {
	raw, err := os.ReadFile(in.TemplatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrMissingTemplate, in.TemplatePath)
		}
		return "", fmt.Errorf("failed to read template %s: %w", in.TemplatePath, err)
	}

	meta, body, err := loadPageContent(in.Root, in.PagesDir, in.Resolution.Name, in.Unsafe)
	if err != nil {
		return "", err
	}

	title := in.Descriptor.Title
	if title == "" {
		title = meta.Title
	}

	tmpl, err := template.New(in.Resolution.Name).Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", in.TemplatePath, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, PageData{
		Name:      in.Resolution.Name,
		Title:     title,
		Content:   template.HTML(body),
		BaseHref:  in.BaseHref,
		URL:       in.URL,
		URLParams: in.Descriptor.URLParams,
		Params:    meta.Params,
	}); err != nil {
		return "", fmt.Errorf("failed to render page %s: %w", in.Resolution.Name, err)
	}

	out := buf.String()
	if title != "" {
		out = setTitle(out, title)
	}
	out = injectSnippets(out, in.Descriptor.Inject, in.InjectTarget)
	if in.AutoAddEntry {
		out = addEntryScript(out, in.Descriptor.Entry)
	}
	return out, nil
}

// setTitle rewrites the document's title element. Plain templates without
// a title element are left alone; templates using {{.Title}} produce the
// same text and the rewrite is a no-op.
func setTitle(html, title string) string {
	return titleTag.ReplaceAllString(html, "<title>"+template.HTMLEscapeString(title)+"</title>")
}

// injectSnippets inserts each configured markup snippet in front of the
// inject target marker, in order.
func injectSnippets(html string, snippets []string, target string) string {
	if len(snippets) == 0 || target == "" || !strings.Contains(html, target) {
		return html
	}
	return strings.Replace(html, target, strings.Join(snippets, "\n")+"\n"+target, 1)
}

// addEntryScript appends a module script tag for the page entry before
// </body> unless the document already references the entry.
func addEntryScript(html, entry string) string {
	if entry == "" || strings.Contains(html, entry) {
		return html
	}
	tag := `<script type="module" src="` + entry + `"></script>`
	if !strings.Contains(html, "</body>") {
		return html + tag
	}
	return strings.Replace(html, "</body>", tag+"\n</body>", 1)
}
