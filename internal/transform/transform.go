// Package transform maps circles from the pixel space of the SVG export to
// the coordinate space of the ddc document.
//
// The mapping is a uniform scale-down followed by a fixed translation:
//
//	x' = x/scaleDown - shiftX
//	y' = y/scaleDown - shiftY
//	radius' = r/scaleDown
//
// The parameters are configuration, never derived from the input; no
// automatic fitting or centering is performed.
package transform

import (
	"fmt"
	"math"

	"github.com/shinji-kodama/cdr2ddc/internal/model"
)

// Params holds the scale and shift applied to every circle.
type Params struct {
	// ScaleDown divides every length. Must be finite and positive.
	ScaleDown float64 `json:"scaleDown" yaml:"scale_down"`

	// ShiftX and ShiftY are subtracted after scaling, in destination units.
	ShiftX float64 `json:"shiftX" yaml:"shift_x"`
	ShiftY float64 `json:"shiftY" yaml:"shift_y"`
}

// DefaultParams returns the identity mapping.
func DefaultParams() Params {
	return Params{ScaleDown: 1}
}

// Validate rejects parameters that would produce non-finite coordinates.
func (p Params) Validate() error {
	if math.IsNaN(p.ScaleDown) || math.IsInf(p.ScaleDown, 0) || p.ScaleDown <= 0 {
		return fmt.Errorf("scale-down must be a finite positive number, got %v", p.ScaleDown)
	}
	if math.IsNaN(p.ShiftX) || math.IsInf(p.ShiftX, 0) {
		return fmt.Errorf("shift-x must be finite, got %v", p.ShiftX)
	}
	if math.IsNaN(p.ShiftY) || math.IsInf(p.ShiftY, 0) {
		return fmt.Errorf("shift-y must be finite, got %v", p.ShiftY)
	}
	return nil
}

// Circle maps a single circle.
func (p Params) Circle(c model.RawCircle) model.OutputCircle {
	return model.OutputCircle{
		X:      c.X/p.ScaleDown - p.ShiftX,
		Y:      c.Y/p.ScaleDown - p.ShiftY,
		Radius: c.R / p.ScaleDown,
	}
}

// Apply maps every circle, preserving order.
func Apply(p Params, circles []model.RawCircle) []model.OutputCircle {
	out := make([]model.OutputCircle, 0, len(circles))
	for _, c := range circles {
		out = append(out, p.Circle(c))
	}
	return out
}
