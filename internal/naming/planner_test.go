// internal/naming/planner_test.go
package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"multipage/internal/config"
)

var defaults = Patterns{
	Entry: "[name].[ext]",
	Chunk: "[name]-[hash].[ext]",
	Asset: "[name]-[hash].[ext]",
}

func TestPlanNoKnobsCopiesForward(t *testing.T) {
	got := Plan(config.BuildNaming{}, defaults, "assets")
	assert.Equal(t, defaults, got)
}

func TestPlanHTMLHashInstallsFlatPatterns(t *testing.T) {
	got := Plan(config.BuildNaming{HTMLHash: true}, defaults, "assets")

	want := "assets/[name].[ext]"
	assert.Equal(t, want, got.Entry)
	assert.Equal(t, want, got.Chunk)
	assert.Equal(t, want, got.Asset)
}

func TestPlanAssetDirWithoutHashTokenUsesUnhashedForm(t *testing.T) {
	current := defaults
	current.Asset = "[name].[ext]"

	got := Plan(config.BuildNaming{AssetDir: "x"}, current, "assets")
	assert.Equal(t, "x/[name].[ext]", got.Asset)
}

func TestPlanAssetDirWithHashTokenKeepsHashedForm(t *testing.T) {
	got := Plan(config.BuildNaming{AssetDir: "x"}, defaults, "assets")
	assert.Equal(t, "x/[name]-[hash].[ext]", got.Asset)
}

func TestPlanPerCategoryDecisionsAreIndependent(t *testing.T) {
	current := Patterns{
		Entry: "[name].[ext]",          // no hash token
		Chunk: "[name]-[hash].[ext]",   // hash token
		Asset: "a/[name]-[hash].[ext]", // hash token
	}
	b := config.BuildNaming{EntryDir: "js", ChunkDir: "chunks", AssetDir: "static"}

	got := Plan(b, current, "assets")

	assert.Equal(t, "js/[name].[ext]", got.Entry)
	assert.Equal(t, "chunks/[name]-[hash].[ext]", got.Chunk)
	assert.Equal(t, "static/[name]-[hash].[ext]", got.Asset)
}

func TestPlanHTMLHashForcesUnhashedDirForms(t *testing.T) {
	b := config.BuildNaming{HTMLHash: true, EntryDir: "js", ChunkDir: "chunks", AssetDir: "static"}

	got := Plan(b, defaults, "assets")

	assert.Equal(t, "js/[name].[ext]", got.Entry)
	assert.Equal(t, "chunks/[name].[ext]", got.Chunk)
	assert.Equal(t, "static/[name].[ext]", got.Asset)
}

func TestPlanDirOverrideLayersOverGlobalHash(t *testing.T) {
	b := config.BuildNaming{HTMLHash: true, ChunkDir: "chunks"}

	got := Plan(b, defaults, "assets")

	// The chunk category is relocated; the others keep the global pattern.
	assert.Equal(t, "chunks/[name].[ext]", got.Chunk)
	assert.Equal(t, "assets/[name].[ext]", got.Entry)
	assert.Equal(t, "assets/[name].[ext]", got.Asset)
}

func TestPrefixInputsProductionOnly(t *testing.T) {
	inputs := map[string]string{"foo": "src/pages/foo/main.js", "bar": "src/pages/bar/main.js"}

	prod := PrefixInputs(inputs, "app-", true)
	assert.Equal(t, map[string]string{
		"app-foo": "src/pages/foo/main.js",
		"app-bar": "src/pages/bar/main.js",
	}, prod)

	dev := PrefixInputs(inputs, "app-", false)
	assert.Equal(t, inputs, dev)

	noPrefix := PrefixInputs(inputs, "", true)
	assert.Equal(t, inputs, noPrefix)
}
