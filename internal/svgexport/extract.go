package svgexport

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shinji-kodama/cdr2ddc/internal/model"
)

// ClosedBezierShapeClass is the class LibreOffice gives to closed curve
// shapes. Circles imported from CorelDRAW are exported as such shapes.
const ClosedBezierShapeClass = "com.sun.star.drawing.ClosedBezierShape"

// DefaultSizeTolerance is the largest width/height difference, in pixels,
// accepted without a size warning. LibreOffice sometimes rounds one side of
// a circle's bounding box differently from the other.
const DefaultSizeTolerance = 1

// Options controls extraction.
type Options struct {
	// Query locates the group whose children are the shapes.
	Query GroupQuery

	// ShapeClass is the class marker of shapes treated as circles. A shape
	// matches only when its class attribute equals it exactly.
	ShapeClass string

	// SizeTolerance is the largest |width - height| of a bounding box that
	// does not produce a WarningSize. Negative disables the check.
	SizeTolerance int
}

// DefaultOptions returns the options matching a LibreOffice Draw export.
func DefaultOptions() Options {
	return Options{
		Query:         DefaultGroupQuery,
		ShapeClass:    ClosedBezierShapeClass,
		SizeTolerance: DefaultSizeTolerance,
	}
}

// WarningKind classifies a recoverable per-shape problem.
type WarningKind string

const (
	// WarningFill means the fill value could not be parsed; the circle is
	// kept with a nil color.
	WarningFill WarningKind = "fill"

	// WarningSize means the bounding box is not square within the
	// tolerance; the radius is still taken from the width.
	WarningSize WarningKind = "size"
)

// Warning is a recoverable problem found on one shape.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	ShapeID string      `json:"shapeId"`
	Message string      `json:"message"`
}

// String formats the warning as a single diagnostic line.
func (w Warning) String() string {
	return fmt.Sprintf("warning: shape %s: %s", w.ShapeID, w.Message)
}

// Result is the outcome of Extract.
type Result struct {
	// ViewBox is the root element's viewBox.
	ViewBox ViewBox

	// Circles holds the extracted circles in document order.
	Circles []model.RawCircle

	// Skipped counts children of the shape group that are not circles
	// (lines, text, other shapes).
	Skipped int

	// Warnings holds recoverable per-shape problems in document order.
	Warnings []Warning
}

// Extract reads every circle from the shape group of doc.
//
// Structural problems (missing viewBox, missing group, a shape without a
// bounding box or path, non-integer geometry) are fatal and wrap
// ErrStructure. An unparseable fill only produces a Warning.
func Extract(doc *Document, opts Options) (*Result, error) {
	if opts.ShapeClass == "" {
		opts.ShapeClass = ClosedBezierShapeClass
	}
	if len(opts.Query) == 0 {
		opts.Query = DefaultGroupQuery
	}

	vb, err := doc.ViewBox()
	if err != nil {
		return nil, err
	}

	group, err := doc.ShapeGroup(opts.Query)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ViewBox: vb,
		Circles: make([]model.RawCircle, 0, len(group.Children)),
	}

	for i, shape := range group.Children {
		if !shape.ClassIs(opts.ShapeClass) {
			result.Skipped++
			continue
		}

		circle, warnings, err := readShape(shape, i, opts)
		if err != nil {
			return nil, err
		}
		result.Circles = append(result.Circles, circle)
		result.Warnings = append(result.Warnings, warnings...)
	}

	return result, nil
}

// readShape extracts one circle from a shape element. index is the
// shape's position in the group, used to name shapes without an id.
func readShape(shape *Element, index int, opts Options) (model.RawCircle, []Warning, error) {
	if len(shape.Children) == 0 {
		return model.RawCircle{}, nil, fmt.Errorf("%w: shape at position %d has no child elements", ErrStructure, index)
	}

	// The first child carries the id and wraps the geometry.
	body := shape.Children[0]
	id, ok := body.Attr("id")
	if !ok || id == "" {
		id = "#" + strconv.Itoa(index)
	}

	rect := body.firstChild("rect", "BoundingBox")
	if rect == nil {
		rect = body.firstChild("rect", "")
	}
	if rect == nil {
		return model.RawCircle{}, nil, fmt.Errorf("%w: shape %s has no bounding box <rect>", ErrStructure, id)
	}

	var geom [4]int
	for i, name := range []string{"x", "y", "width", "height"} {
		v, err := intAttr(rect, name)
		if err != nil {
			return model.RawCircle{}, nil, fmt.Errorf("%w: shape %s: %v", ErrStructure, id, err)
		}
		geom[i] = v
	}
	left, top, w, h := geom[0], geom[1], geom[2], geom[3]

	circle := model.RawCircle{
		ID: id,
		X:  float64(left) + float64(w)/2,
		Y:  float64(top) + float64(h)/2,
		R:  float64(w) / 2,
	}

	var warnings []Warning
	if opts.SizeTolerance >= 0 && abs(w-h) > opts.SizeTolerance {
		warnings = append(warnings, Warning{
			Kind:    WarningSize,
			ShapeID: id,
			Message: fmt.Sprintf("bounding box is %dx%d, radius taken from width", w, h),
		})
	}

	path := fillPath(body)
	if path == nil {
		return model.RawCircle{}, nil, fmt.Errorf("%w: shape %s has no <path> element", ErrStructure, id)
	}

	fill, _ := path.Attr("fill")
	color, err := ParseFill(fill)
	if err != nil {
		warnings = append(warnings, Warning{
			Kind:    WarningFill,
			ShapeID: id,
			Message: fmt.Sprintf("unparseable fill %q: %v", fill, err),
		})
	} else {
		circle.Color = &color
	}

	return circle, warnings, nil
}

// fillPath returns the first <path> child carrying a fill attribute,
// falling back to the first <path> child.
func fillPath(body *Element) *Element {
	for _, c := range body.Children {
		if c.Tag != "path" {
			continue
		}
		if _, ok := c.Attr("fill"); ok {
			return c
		}
	}
	return body.firstChild("path", "")
}

// intAttr reads a required integer attribute.
func intAttr(e *Element, name string) (int, error) {
	raw, ok := e.Attr(name)
	if !ok {
		return 0, fmt.Errorf("bounding box has no %q attribute", name)
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("bounding box attribute %s=%q is not an integer", name, raw)
	}
	return v, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
