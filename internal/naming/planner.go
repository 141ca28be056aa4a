// internal/naming/planner.go
package naming

import (
	"path"
	"strings"

	"multipage/internal/config"
)

// Patterns holds the host bundler's output file-naming templates for the
// three output categories. The strings use the host's [name], [hash] and
// [ext] placeholders.
type Patterns struct {
	Entry string
	Chunk string
	Asset string
}

const hashToken = "[hash]"

// Plan computes the output naming patterns from the configured knobs. It
// runs once per build, after the host configuration is finalized, and its
// result replaces the host patterns wholesale; fields no rule touches are
// copied forward from current first.
//
// With HTMLHash set, all three categories are pinned to an unhashed
// pattern under assetsDir so the query-token tagging in post-processing is
// the only cache-busting mechanism. The per-category directory overrides
// are then layered on top, each decided independently.
func Plan(b config.BuildNaming, current Patterns, assetsDir string) Patterns {
	out := current

	if b.HTMLHash {
		flat := path.Join(assetsDir, "[name].[ext]")
		out = Patterns{Entry: flat, Chunk: flat, Asset: flat}
	}

	if b.EntryDir != "" {
		out.Entry = dirPattern(b.EntryDir, current.Entry, b.HTMLHash)
	}
	if b.ChunkDir != "" {
		out.Chunk = dirPattern(b.ChunkDir, current.Chunk, b.HTMLHash)
	}
	if b.AssetDir != "" {
		out.Asset = dirPattern(b.AssetDir, current.Asset, b.HTMLHash)
	}

	return out
}

// dirPattern relocates one category into dir. The unhashed form is used
// when HTMLHash is on or the category's current pattern carries no hash
// token; otherwise the hashed form keeps cache busting intact.
func dirPattern(dir, current string, htmlHash bool) string {
	if htmlHash || !strings.Contains(current, hashToken) {
		return dir + "/[name].[ext]"
	}
	return dir + "/[name]-[hash].[ext]"
}

// PrefixInputs rewrites every key of the host's entry-input mapping by
// prepending prefix; values are untouched. Prefixing happens only for
// production builds: dev serve gets the map back unchanged even when a
// prefix is configured.
func PrefixInputs(inputs map[string]string, prefix string, production bool) map[string]string {
	if prefix == "" || !production {
		return inputs
	}
	out := make(map[string]string, len(inputs))
	for key, val := range inputs {
		out[prefix+key] = val
	}
	return out
}
