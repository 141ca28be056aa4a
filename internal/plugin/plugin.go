// internal/plugin/plugin.go
package plugin

import (
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"multipage/internal/config"
	"multipage/internal/naming"
	"multipage/internal/pages"
	"multipage/internal/postbuild"
	"multipage/internal/render"
	"multipage/internal/util"
)

// Namespace and id prefix for HTML entry documents synthesized by the
// plugin instead of being read from disk.
const (
	htmlNamespace = "multipage-html"
	virtualPrefix = "multipage-html:"
)

// New returns the esbuild plugin. It owns the HTML side of a build: it
// rewrites the output naming patterns once at setup, synthesizes a virtual
// module for every HTML entry, and post-processes the emitted documents in
// OnEnd.
//
// The build must run with Write disabled; the finished documents are
// relocated in result.OutputFiles and the caller persists them.
func New(root string, opts *config.Options, renderer render.Renderer, inputs map[string]string) api.Plugin {
	if renderer == nil {
		renderer = render.HTMLRenderer{}
	}

	return api.Plugin{
		Name: "multipage",
		Setup: func(build api.PluginBuild) {
			outDir := build.InitialOptions.Outdir

			// Naming runs once, against the finalized host configuration,
			// and only when this plugin owns HTML generation in MPA mode.
			if !opts.OnlyPostProcess && opts.MPA() {
				applyPatterns(build.InitialOptions, naming.Plan(opts.Build, currentPatterns(build.InitialOptions), defaultAssetsDir))
			}

			build.OnResolve(api.OnResolveOptions{Filter: `\.html$`}, func(args api.OnResolveArgs) (api.OnResolveResult, error) {
				id := args.Path
				if !filepath.IsAbs(id) {
					id = filepath.Join(args.ResolveDir, id)
				}
				return api.OnResolveResult{
					Path:      virtualPrefix + filepath.ToSlash(id),
					Namespace: htmlNamespace,
				}, nil
			})

			build.OnLoad(api.OnLoadOptions{Filter: `.*`, Namespace: htmlNamespace}, func(args api.OnLoadArgs) (api.OnLoadResult, error) {
				id := strings.TrimPrefix(args.Path, virtualPrefix)

				// One Resolution per module visit; the page name never
				// travels through shared state.
				res := pages.Resolution{Name: pages.FromModuleID(id), Build: true}
				desc := pages.ResolveDescriptor(opts, res.Name)

				tpl, err := pages.ResolveTemplate(root, opts, desc, res, inputs)
				if err != nil {
					return api.OnLoadResult{}, err
				}

				rel, relErr := filepath.Rel(root, id)
				if relErr != nil {
					rel = id
				}
				html, err := renderer.Render(render.Input{
					Root:         root,
					PagesDir:     opts.PagesDir,
					Resolution:   res,
					Descriptor:   desc,
					TemplatePath: tpl,
					IsMPA:        opts.MPA(),
					AutoAddEntry: opts.AutoAddEntry,
					InjectTarget: opts.InjectTarget,
					BaseHref:     util.ComputeBaseHref(rel),
					URL:          "/" + filepath.ToSlash(rel),
					Unsafe:       opts.Unsafe,
				})
				if err != nil {
					return api.OnLoadResult{}, err
				}
				return api.OnLoadResult{
					Contents:   &html,
					Loader:     api.LoaderCopy,
					ResolveDir: root,
				}, nil
			})

			// The processor is created at setup so the shared cache-busting
			// token reflects the build start.
			var minify postbuild.Minifier
			if opts.Minify {
				minify = render.Minify
			}
			proc := postbuild.New(opts.Build, opts.MPA(), minify, nil)

			build.OnEnd(func(result *api.BuildResult) (api.OnEndResult, error) {
				var assets []*postbuild.Asset
				var indexes []int
				for i, f := range result.OutputFiles {
					rel, err := filepath.Rel(outDir, f.Path)
					if err != nil {
						continue
					}
					rel = filepath.ToSlash(rel)
					if !strings.HasSuffix(rel, ".html") {
						continue
					}
					assets = append(assets, &postbuild.Asset{Path: rel, Text: string(f.Contents)})
					indexes = append(indexes, i)
				}

				if err := proc.Process(assets, outDir); err != nil {
					return api.OnEndResult{}, err
				}

				for n, i := range indexes {
					result.OutputFiles[i].Path = filepath.Join(outDir, filepath.FromSlash(assets[n].Path))
					result.OutputFiles[i].Contents = []byte(assets[n].Text)
				}
				return api.OnEndResult{}, nil
			})
		},
	}
}

// currentPatterns translates the host's naming options into the planner's
// pattern vocabulary, substituting esbuild's defaults for unset fields.
// esbuild appends the real extension itself, so the host strings carry no
// [ext] placeholder; the planner vocabulary does.
func currentPatterns(o *api.BuildOptions) naming.Patterns {
	return naming.Patterns{
		Entry: fromEsbuild(o.EntryNames, "[dir]/[name].[ext]"),
		Chunk: fromEsbuild(o.ChunkNames, "[name]-[hash].[ext]"),
		Asset: fromEsbuild(o.AssetNames, "[name]-[hash].[ext]"),
	}
}

func fromEsbuild(pattern, def string) string {
	if pattern == "" {
		return def
	}
	return pattern + ".[ext]"
}

func toEsbuild(pattern string) string {
	return strings.TrimSuffix(pattern, ".[ext]")
}

// applyPatterns replaces the host naming options wholesale with the
// planner's result.
func applyPatterns(o *api.BuildOptions, p naming.Patterns) {
	o.EntryNames = toEsbuild(p.Entry)
	o.ChunkNames = toEsbuild(p.Chunk)
	o.AssetNames = toEsbuild(p.Asset)
}

// defaultAssetsDir is where the global hashed-pattern override roots its
// patterns. esbuild has no dedicated assets-directory option; "assets" is
// the conventional choice shared with the scaffold.
const defaultAssetsDir = "assets"
