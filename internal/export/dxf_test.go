package export

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SpritePack/internal/importer"
)

func TestExportDXF_ReadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.dxf")
	result, _ := buildTestResult(t)

	require.NoError(t, ExportDXF(path, result))

	imported := importer.ImportDXF(path)
	require.Empty(t, imported.Errors)
	require.Len(t, imported.Rects, 3)

	var sizes [][2]int
	for _, r := range imported.Rects {
		sizes = append(sizes, [2]int{r.W, r.H})
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i][0]*sizes[i][1] > sizes[j][0]*sizes[j][1] })

	// Bin outline, then the rects in their placed orientation
	assert.Equal(t, [][2]int{{100, 100}, {60, 100}, {40, 80}}, sizes)
}
