package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SpritePack/internal/model"
)

func TestExportAtlas_HashFormat(t *testing.T) {
	result, _ := buildTestResult(t)

	var buf bytes.Buffer
	require.NoError(t, ExportAtlas(&buf, result, "sprites.png"))

	// Decode generically to check the exact key names readers expect.
	var doc map[string]map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Contains(t, doc, "frames")
	require.Contains(t, doc, "meta")
	assert.Equal(t, "sprites.png", doc["meta"]["image"])

	var atlas Atlas
	require.NoError(t, json.Unmarshal(buf.Bytes(), &atlas))
	require.Len(t, atlas.Frames, 2)

	banner := atlas.Frames["banner"]
	assert.True(t, banner.Rotated)
	assert.Equal(t, AtlasRect{X: 60, Y: 0, W: 80, H: 40}, banner.Frame)
	assert.Equal(t, AtlasSize{W: 80, H: 40}, banner.SourceSize)

	column := atlas.Frames["column"]
	assert.False(t, column.Rotated)
	assert.Equal(t, AtlasRect{X: 0, Y: 0, W: 60, H: 100}, column.Frame)

	assert.Equal(t, AtlasSize{W: 100, H: 100}, atlas.Meta.Size)
}

func TestBuildAtlas_DuplicateLabels(t *testing.T) {
	a := model.NewRect("coin", 8, 8)
	b := model.NewRect("coin", 8, 8)
	b.X = 8
	result := model.PackResult{Tight: model.Size{W: 16, H: 8}, Placed: []*model.Rect{a, b}}

	atlas := BuildAtlas(result, "coins.png")
	require.Len(t, atlas.Frames, 2)
	assert.Contains(t, atlas.Frames, "coin")
	assert.Contains(t, atlas.Frames, "coin#"+b.ID)
}

func TestExportAtlasFile_DefaultImageName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ui.json")
	result, _ := buildTestResult(t)
	require.NoError(t, ExportAtlasFile(path, result, ""))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var atlas Atlas
	require.NoError(t, json.Unmarshal(data, &atlas))
	assert.Equal(t, "ui.png", atlas.Meta.Image)
	assert.Equal(t, "spritepack", atlas.Meta.App)
}
