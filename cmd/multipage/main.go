// cmd/multipage/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"multipage/internal/config"
	"multipage/internal/plugin"
	"multipage/internal/render"
	"multipage/internal/scaffold"
	"multipage/internal/server"
)

type appConfig struct {
	port   int
	root   string
	unsafe bool
}

const (
	configFile = "multipage.yaml"
	outputDir  = "dist"
)

func main() {
	appCfg := appConfig{}
	// Global flags
	flag.IntVar(&appCfg.port, "port", 1313, "Port for the local development server.")
	flag.StringVar(&appCfg.root, "root", ".", "Project root directory.")
	flag.BoolVar(&appCfg.unsafe, "unsafe", false, "Disable HTML sanitization of markdown page bodies.")
	flag.Usage = printHelp
	flag.Parse()

	if err := run(appCfg); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Operation failed: %v\n", err)
		os.Exit(1)
	}
}

func run(appCfg appConfig) error {
	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		return nil
	}

	// Path math downstream (virtual ids, base hrefs) assumes an absolute
	// project root.
	root, err := filepath.Abs(appCfg.root)
	if err != nil {
		return fmt.Errorf("could not resolve project root: %w", err)
	}
	appCfg.root = root

	switch args[0] {
	case "build":
		fmt.Println("--- Building pages ---")
		opts, err := getOptions(appCfg)
		if err != nil {
			return err
		}
		return runBuild(appCfg.root, opts)

	case "serve":
		opts, err := getOptions(appCfg)
		if err != nil {
			return err
		}
		inputs := plugin.Inputs(appCfg.root, opts)
		return server.Run(appCfg.port, appCfg.root, opts, render.HTMLRenderer{}, inputs)

	case "new":
		if len(args) < 3 || args[1] != "site" {
			flag.Usage()
			return nil
		}
		return scaffold.CreateNewSite(args[2])

	default:
		flag.Usage()
	}

	return nil
}

// runBuild hands the entry list to esbuild with Write disabled, then
// persists the (post-processed) output files itself. The plugin relocates
// HTML documents inside result.OutputFiles before anything hits disk.
func runBuild(root string, opts *config.Options) error {
	inputs := plugin.Inputs(root, opts)
	entries := plugin.EntryPoints(root, opts, inputs, true)

	outDir := filepath.Join(root, outputDir)
	result := api.Build(api.BuildOptions{
		EntryPointsAdvanced: entries,
		Outdir:              outDir,
		Bundle:              true,
		Write:               false,
		MinifyWhitespace:    opts.Minify,
		MinifyIdentifiers:   opts.Minify,
		MinifySyntax:        opts.Minify,
		Plugins:             []api.Plugin{plugin.New(root, opts, render.HTMLRenderer{}, inputs)},
	})
	if len(result.Errors) > 0 {
		for _, msg := range result.Errors {
			fmt.Fprintf(os.Stderr, "  %s\n", msg.Text)
		}
		return fmt.Errorf("build finished with %d error(s)", len(result.Errors))
	}

	pageCount := 0
	for _, f := range result.OutputFiles {
		if err := os.MkdirAll(filepath.Dir(f.Path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(f.Path, f.Contents, 0644); err != nil {
			return fmt.Errorf("failed to write output %s: %w", f.Path, err)
		}
		if strings.HasSuffix(f.Path, ".html") {
			pageCount++
		}
	}
	fmt.Printf("✅ Success! Emitted %d pages into %s.\n", pageCount, outDir)
	return nil
}

func getOptions(appCfg appConfig) (*config.Options, error) {
	path := filepath.Join(appCfg.root, configFile)
	opts, err := config.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			defaults := config.Defaults()
			defaults.Unsafe = appCfg.unsafe
			return &defaults, nil
		}
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if appCfg.unsafe {
		opts.Unsafe = true
	}
	return &opts, nil
}

func printHelp() {
	fmt.Println("multipage - HTML page resolution and output planning for esbuild projects")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  multipage [global-flags] <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  build              Bundle the project and emit finished HTML pages")
	fmt.Println("  serve              Run a local dev server that renders pages per request")
	fmt.Println("  new site <name>    Create a new project scaffold")
	fmt.Println()
	fmt.Println("Global Flags:")
	flag.PrintDefaults()
}
