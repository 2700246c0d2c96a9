package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/piwi3910/SpritePack/internal/model"
)

// AtlasRect is a rectangle in atlas JSON.
type AtlasRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// AtlasSize is a size in atlas JSON.
type AtlasSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

// AtlasFrame is one sprite entry. Frame holds the sprite's own size; when
// Rotated is set the sprite occupies Frame.H x Frame.W pixels in the page,
// turned 90° clockwise.
type AtlasFrame struct {
	Frame            AtlasRect `json:"frame"`
	Rotated          bool      `json:"rotated"`
	Trimmed          bool      `json:"trimmed"`
	SpriteSourceSize AtlasRect `json:"spriteSourceSize"`
	SourceSize       AtlasSize `json:"sourceSize"`
}

// AtlasMeta describes the page image.
type AtlasMeta struct {
	App    string    `json:"app"`
	Image  string    `json:"image"`
	Format string    `json:"format"`
	Size   AtlasSize `json:"size"`
	Scale  string    `json:"scale"`
}

// Atlas is a single page atlas in the TexturePacker JSON hash format.
type Atlas struct {
	Frames map[string]AtlasFrame `json:"frames"`
	Meta   AtlasMeta             `json:"meta"`
}

// BuildAtlas converts placed rects to atlas frames keyed by label. A label
// that is already taken gets the rect ID appended.
func BuildAtlas(result model.PackResult, image string) Atlas {
	atlas := Atlas{
		Frames: make(map[string]AtlasFrame, len(result.Placed)),
		Meta: AtlasMeta{
			App:    "spritepack",
			Image:  image,
			Format: "RGBA8888",
			Size:   AtlasSize{W: result.Tight.W, H: result.Tight.H},
			Scale:  "1",
		},
	}

	for _, r := range result.Placed {
		name := r.Label
		if _, taken := atlas.Frames[name]; taken || name == "" {
			name = fmt.Sprintf("%s#%s", r.Label, r.ID)
		}
		atlas.Frames[name] = AtlasFrame{
			Frame:            AtlasRect{X: r.X, Y: r.Y, W: r.W, H: r.H},
			Rotated:          r.Flipped,
			SpriteSourceSize: AtlasRect{W: r.W, H: r.H},
			SourceSize:       AtlasSize{W: r.W, H: r.H},
		}
	}
	return atlas
}

// ExportAtlas writes the atlas JSON for result to w.
func ExportAtlas(w io.Writer, result model.PackResult, image string) error {
	if err := checkResult(result); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(BuildAtlas(result, image)); err != nil {
		return fmt.Errorf("failed to encode atlas: %w", err)
	}
	return nil
}

// ExportAtlasFile writes the atlas JSON to path. An empty image name
// defaults to the JSON file name with a .png extension.
func ExportAtlasFile(path string, result model.PackResult, image string) error {
	if err := checkResult(result); err != nil {
		return err
	}
	if image == "" {
		base := filepath.Base(path)
		image = base[:len(base)-len(filepath.Ext(base))] + ".png"
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create atlas file: %w", err)
	}
	if err := ExportAtlas(f, result, image); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
