// internal/scaffold/scaffold.go
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
)

// CreateNewSite writes a minimal multi-page project skeleton: a shared
// template under public/, two pages with their entry scripts, and a config
// file wiring them together.
func CreateNewSite(name string) error {
	fmt.Println("Scaffolding new project in:", name)
	mkdir := func(path string) error { return os.MkdirAll(filepath.Join(name, path), 0755) }
	writeFile := func(path, content string) error {
		return os.WriteFile(filepath.Join(name, path), []byte(content), 0644)
	}
	dirs := []string{"public", "src/pages/index", "src/pages/about", "assets/css"}
	for _, dir := range dirs {
		if err := mkdir(dir); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	files := map[string]string{
		"multipage.yaml":           configYamlContent,
		"public/index.html":        templateHtmlContent,
		"src/pages/index/main.js":  indexEntryContent,
		"src/pages/index/index.md": indexContentMd,
		"src/pages/about/main.js":  aboutEntryContent,
		"src/pages/about/index.md": aboutContentMd,
		"assets/css/style.css":     styleCssContent,
	}
	for path, content := range files {
		if err := writeFile(path, content); err != nil {
			return fmt.Errorf("failed to write file %s: %w", path, err)
		}
	}
	fmt.Println("Project scaffolded. You can now:")
	fmt.Println("  cd", name)
	fmt.Println("  multipage serve")
	fmt.Println("  multipage build")
	return nil
}

// Constants for default file contents
const configYamlContent = `pagesDir: src/pages
title: My Site
pages:
  index:
    title: Home
    entry: src/pages/index/main.js
  about:
    title: About
    entry: src/pages/about/main.js
autoAddEntry: true
build:
  moveHtmlTop: true
`

const templateHtmlContent = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{ .Title }}</title>
  <link rel="stylesheet" href="{{ .BaseHref }}assets/css/style.css">
</head>
<body>
  <main>
    {{ .Content }}
  </main>
</body>
</html>
`

const indexEntryContent = `console.log("index page ready");
`

const aboutEntryContent = `console.log("about page ready");
`

const indexContentMd = `---
title: Home
---

Welcome. Edit ` + "`src/pages/index/index.md`" + ` to change this page.
`

const aboutContentMd = `---
title: About
---

This page comes from ` + "`src/pages/about/index.md`" + `.
`

const styleCssContent = `body {
  font-family: sans-serif;
  max-width: 700px;
  margin: 2em auto;
  padding: 0 1em;
  line-height: 1.6;
  color: #222;
  background: #fdfdfd;
}
main { margin-bottom: 3em; }
`
