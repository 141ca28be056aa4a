// internal/render/content.go
package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"gopkg.in/yaml.v3"
)

var (
	markdownRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(
				util.Prioritized(newMDLinkTransformer(), 100),
			),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	htmlSanitizer = bluemonday.UGCPolicy()
)

// ContentMeta holds the front matter of a page content file.
type ContentMeta struct {
	Title       string                 `yaml:"title"`
	Description string                 `yaml:"description"`
	Params      map[string]interface{} `yaml:",inline"`
}

// loadPageContent looks for <pagesDir>/<name>/index.md and, when present,
// renders it to HTML. Pages without a content file get empty metadata and
// an empty body; that is the common case for script-driven pages.
func loadPageContent(root, pagesDir, pageName string, unsafe bool) (ContentMeta, string, error) {
	path := filepath.Join(root, pagesDir, pageName, "index.md")
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ContentMeta{}, "", nil
		}
		return ContentMeta{}, "", fmt.Errorf("failed to read content file %s: %w", path, err)
	}
	return processContent(raw, unsafe)
}

// processContent separates front matter from the markdown body, renders the
// body with goldmark, and sanitizes the result unless unsafe is set.
func processContent(rawContent []byte, unsafe bool) (ContentMeta, string, error) {
	meta := ContentMeta{}

	parts := bytes.SplitN(rawContent, []byte("---"), 3)
	var body []byte
	if len(parts) >= 3 {
		if err := yaml.Unmarshal(parts[1], &meta); err != nil {
			return ContentMeta{}, "", fmt.Errorf("failed to parse front matter: %w", err)
		}
		body = parts[2]
	} else {
		body = rawContent
	}

	var htmlBuffer bytes.Buffer
	if err := markdownRenderer.Convert(body, &htmlBuffer); err != nil {
		return meta, "", fmt.Errorf("failed to render markdown with goldmark: %w", err)
	}

	if !unsafe {
		return meta, string(htmlSanitizer.SanitizeBytes(htmlBuffer.Bytes())), nil
	}
	return meta, htmlBuffer.String(), nil
}

// mdLinkTransformer rewrites relative .md link destinations to .html so
// intra-site links keep working after rendering.
type mdLinkTransformer struct{}

func newMDLinkTransformer() parser.ASTTransformer {
	return &mdLinkTransformer{}
}

func (t *mdLinkTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}
		if bytes.HasSuffix(link.Destination, []byte(".md")) {
			dest := bytes.TrimSuffix(link.Destination, []byte(".md"))
			link.Destination = append(dest, []byte(".html")...)
		}
		return ast.WalkContinue, nil
	})
}
