package svgexport

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrStructure is wrapped by every error caused by the SVG not having the
// structure of a LibreOffice Draw export: malformed XML, a missing viewBox,
// a missing shape group or missing/malformed geometry attributes.
var ErrStructure = errors.New("unexpected SVG structure")

// Element is a node of the parsed SVG element tree. Only elements and their
// attributes are kept; text, comments and processing instructions are
// dropped.
type Element struct {
	// Tag is the local name of the element (namespace prefix removed).
	Tag string

	// Attrs holds the element's attributes in document order.
	Attrs []xml.Attr

	// Children holds the child elements in document order.
	Children []*Element
}

// Attr returns the value of the un-namespaced attribute with the given name.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasClass reports whether the element's class attribute contains class
// as one of its space-separated tokens.
func (e *Element) HasClass(class string) bool {
	v, ok := e.Attr("class")
	if !ok {
		return false
	}
	for _, token := range strings.Fields(v) {
		if token == class {
			return true
		}
	}
	return false
}

// ClassIs reports whether the element's class attribute is exactly class.
func (e *Element) ClassIs(class string) bool {
	v, ok := e.Attr("class")
	return ok && v == class
}

// Label returns a short description of the element for error messages,
// e.g. `g#id3` or `g.Page`.
func (e *Element) Label() string {
	if id, ok := e.Attr("id"); ok && id != "" {
		return e.Tag + "#" + id
	}
	if class, ok := e.Attr("class"); ok && class != "" {
		return e.Tag + "." + strings.Join(strings.Fields(class), ".")
	}
	return e.Tag
}

// firstChild returns the first direct child matching tag (and class, when
// class is non-empty), or nil.
func (e *Element) firstChild(tag, class string) *Element {
	for _, c := range e.Children {
		if c.Tag == tag && (class == "" || c.HasClass(class)) {
			return c
		}
	}
	return nil
}

// Document is a parsed SVG file.
type Document struct {
	// Root is the top-level <svg> element.
	Root *Element
}

// Parse decodes an SVG document into an element tree.
// The whole input is read into memory; malformed XML or a document
// without a root element is reported as ErrStructure.
func Parse(r io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(r)

	var (
		root  *Element
		stack []*Element
	)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: malformed XML: %v", ErrStructure, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Tag: t.Name.Local, Attrs: t.Copy().Attr}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("%w: multiple root elements", ErrStructure)
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: document has no root element", ErrStructure)
	}
	if root.Tag != "svg" {
		return nil, fmt.Errorf("%w: root element is <%s>, expected <svg>", ErrStructure, root.Tag)
	}
	return &Document{Root: root}, nil
}

// Load opens and parses the SVG file at path. Errors from opening the file
// are returned wrapped, so callers can test them with errors.Is
// (e.g. fs.ErrNotExist).
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SVG: %w", err)
	}
	defer func() { _ = f.Close() }()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
