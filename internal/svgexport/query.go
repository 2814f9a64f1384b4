package svgexport

import (
	"fmt"
	"strconv"
	"strings"
)

// Step matches one element of a GroupQuery by tag and class token.
type Step struct {
	Tag   string
	Class string
}

// String renders the step as "tag.class".
func (s Step) String() string {
	if s.Class == "" {
		return s.Tag
	}
	return s.Tag + "." + s.Class
}

// GroupQuery is a chain of steps. Each step is searched for among the
// descendants of the element matched by the previous step (the first step
// among the descendants of the root), in document order.
type GroupQuery []Step

// DefaultGroupQuery locates the group wrapping the shapes of the single
// page of a LibreOffice Draw export.
var DefaultGroupQuery = GroupQuery{
	{Tag: "g", Class: "SlideGroup"},
	{Tag: "g", Class: "Slide"},
	{Tag: "g", Class: "Page"},
	{Tag: "g", Class: "Group"},
}

// String renders the query as "g.SlideGroup > g.Slide > ...".
func (q GroupQuery) String() string {
	parts := make([]string, 0, len(q))
	for _, s := range q {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, " > ")
}

// ParseGroupQuery parses the String form of a query. Steps are separated by
// ">" and written as "tag" or "tag.class".
func ParseGroupQuery(s string) (GroupQuery, error) {
	var q GroupQuery
	for _, raw := range strings.Split(s, ">") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil, fmt.Errorf("invalid group query %q: empty step", s)
		}
		tag, class, _ := strings.Cut(raw, ".")
		if tag == "" {
			return nil, fmt.Errorf("invalid group query %q: step %q has no tag", s, raw)
		}
		q = append(q, Step{Tag: tag, Class: class})
	}
	return q, nil
}

// ShapeGroup runs query from the document root and returns the matched
// element. When a step matches nothing the error wraps ErrStructure and
// names the step and the path matched so far.
func (d *Document) ShapeGroup(query GroupQuery) (*Element, error) {
	if len(query) == 0 {
		return nil, fmt.Errorf("%w: empty group query", ErrStructure)
	}

	current := d.Root
	matched := []string{current.Label()}
	for i, step := range query {
		next := findDescendant(current, step)
		if next == nil {
			return nil, fmt.Errorf("%w: shape group not found: no <%s> matching step %d (%s) under %s",
				ErrStructure, step.Tag, i+1, step, strings.Join(matched, " > "))
		}
		current = next
		matched = append(matched, current.Label())
	}
	return current, nil
}

// findDescendant returns the first descendant of e matching step in
// document (depth-first, pre-order) order.
func findDescendant(e *Element, step Step) *Element {
	for _, c := range e.Children {
		if c.Tag == step.Tag && (step.Class == "" || c.HasClass(step.Class)) {
			return c
		}
		if found := findDescendant(c, step); found != nil {
			return found
		}
	}
	return nil
}

// ViewBox is the parsed viewBox attribute of the root element.
type ViewBox struct {
	MinX   float64 `json:"minX"`
	MinY   float64 `json:"minY"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// String renders the viewBox the way it appears in SVG.
func (v ViewBox) String() string {
	return strings.Join([]string{
		strconv.FormatFloat(v.MinX, 'f', -1, 64),
		strconv.FormatFloat(v.MinY, 'f', -1, 64),
		strconv.FormatFloat(v.Width, 'f', -1, 64),
		strconv.FormatFloat(v.Height, 'f', -1, 64),
	}, " ")
}

// ViewBox parses the root element's viewBox attribute ("min-x min-y width
// height", separated by whitespace and/or commas). A missing attribute,
// a wrong number of values or a negative size wraps ErrStructure.
func (d *Document) ViewBox() (ViewBox, error) {
	raw, ok := d.Root.Attr("viewBox")
	if !ok {
		return ViewBox{}, fmt.Errorf("%w: root <svg> has no viewBox attribute", ErrStructure)
	}

	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) != 4 {
		return ViewBox{}, fmt.Errorf("%w: viewBox %q must have 4 values, got %d", ErrStructure, raw, len(fields))
	}

	var vals [4]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return ViewBox{}, fmt.Errorf("%w: viewBox %q: invalid number %q", ErrStructure, raw, f)
		}
		vals[i] = v
	}
	if vals[2] < 0 || vals[3] < 0 {
		return ViewBox{}, fmt.Errorf("%w: viewBox %q has a negative size", ErrStructure, raw)
	}

	return ViewBox{MinX: vals[0], MinY: vals[1], Width: vals[2], Height: vals[3]}, nil
}
