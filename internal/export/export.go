// Package export writes packing results to PDF, label sheets, Excel, DXF
// and texture atlas JSON.
package export

import (
	"errors"

	"github.com/piwi3910/SpritePack/internal/model"
)

// ErrNothingToExport is returned when a result has no placed rects.
var ErrNothingToExport = errors.New("nothing to export: no rects were placed")

func checkResult(result model.PackResult) error {
	if len(result.Placed) == 0 {
		return ErrNothingToExport
	}
	return nil
}

// rotatedMark is appended to labels of rects placed with a 90° turn.
func rotatedMark(r *model.Rect) string {
	if r.Flipped {
		return " R"
	}
	return ""
}
