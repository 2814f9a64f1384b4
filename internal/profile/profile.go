package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/cdr2ddc/internal/model"
	"github.com/shinji-kodama/cdr2ddc/internal/svgexport"
	"github.com/shinji-kodama/cdr2ddc/internal/transform"
)

// OutputExt is the extension of ddc files.
const OutputExt = ".ddc"

// Profile is one configuration layer. Nil pointers and empty strings mean
// the layer does not set the value.
type Profile struct {
	// Input is the path of the SVG export to read.
	Input string `json:"input,omitempty" yaml:"input,omitempty"`

	// Output is the path of the ddc file to write. Defaults to Input with
	// its extension replaced by ".ddc".
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// ScaleDown divides all lengths.
	ScaleDown *float64 `json:"scale_down,omitempty" yaml:"scale_down,omitempty"`

	// ShiftX and ShiftY are subtracted after scaling.
	ShiftX *float64 `json:"shift_x,omitempty" yaml:"shift_x,omitempty"`
	ShiftY *float64 `json:"shift_y,omitempty" yaml:"shift_y,omitempty"`

	// SizeTolerance is the accepted |width - height| of a bounding box
	// in pixels. Negative disables the check.
	SizeTolerance *int `json:"size_tolerance,omitempty" yaml:"size_tolerance,omitempty"`

	// GroupQuery overrides the query locating the shape group,
	// e.g. "g.SlideGroup > g.Slide > g.Page > g.Group".
	GroupQuery string `json:"group_query,omitempty" yaml:"group_query,omitempty"`

	// ShapeClass overrides the class marker of circle shapes.
	ShapeClass string `json:"shape_class,omitempty" yaml:"shape_class,omitempty"`

	// Pretty enables indented JSON output.
	Pretty *bool `json:"pretty,omitempty" yaml:"pretty,omitempty"`
}

// Settings is the fully resolved configuration of a run.
type Settings struct {
	Input     string
	Output    string
	Transform transform.Params
	Extract   svgexport.Options
	Pretty    bool
}

// LoadFile reads a profile file. The format is chosen by extension:
// .yaml/.yml for YAML, .json/.jsonc for JSON with comments. Unknown keys
// are rejected so that typos do not silently fall back to defaults.
//
// Returns a CLIError with ExitInvalidConfig for unreadable or invalid files.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitInvalidConfig,
			fmt.Sprintf("failed to read profile %s", path), err)
	}

	var p Profile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = decodeYAML(data, &p)
	case ".json", ".jsonc":
		err = decodeJSONC(data, &p)
	default:
		return nil, model.NewCLIError(model.ExitInvalidConfig,
			fmt.Sprintf("unsupported profile format %q (valid: .yaml, .yml, .json, .jsonc)", ext))
	}
	if err != nil {
		return nil, model.WrapCLIError(model.ExitInvalidConfig,
			fmt.Sprintf("failed to parse profile %s", path), err)
	}

	// Relative paths in a profile are relative to the profile itself.
	p.Input = resolveRelative(path, p.Input)
	p.Output = resolveRelative(path, p.Output)

	return &p, nil
}

func decodeYAML(data []byte, p *Profile) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func decodeJSONC(data []byte, p *Profile) error {
	// Strip comments and trailing commas before handing the document to
	// encoding/json.
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.DisallowUnknownFields()
	return dec.Decode(p)
}

func resolveRelative(profilePath, target string) string {
	if target == "" || filepath.IsAbs(target) {
		return target
	}
	return filepath.Join(filepath.Dir(profilePath), target)
}

// Merge returns a copy of p with every value set in over applied on top.
// A nil over returns a copy of p.
func (p Profile) Merge(over *Profile) Profile {
	if over == nil {
		return p
	}
	if over.Input != "" {
		p.Input = over.Input
	}
	if over.Output != "" {
		p.Output = over.Output
	}
	if over.ScaleDown != nil {
		p.ScaleDown = over.ScaleDown
	}
	if over.ShiftX != nil {
		p.ShiftX = over.ShiftX
	}
	if over.ShiftY != nil {
		p.ShiftY = over.ShiftY
	}
	if over.SizeTolerance != nil {
		p.SizeTolerance = over.SizeTolerance
	}
	if over.GroupQuery != "" {
		p.GroupQuery = over.GroupQuery
	}
	if over.ShapeClass != "" {
		p.ShapeClass = over.ShapeClass
	}
	if over.Pretty != nil {
		p.Pretty = over.Pretty
	}
	return p
}

// Resolve applies defaults to the unset values of p and validates the
// result. When requireInput is true a missing input path is an error.
//
// Returns a CLIError with ExitInvalidConfig for invalid settings.
func (p Profile) Resolve(requireInput bool) (*Settings, error) {
	s := &Settings{
		Input:     p.Input,
		Output:    p.Output,
		Transform: transform.DefaultParams(),
		Extract:   svgexport.DefaultOptions(),
	}

	if requireInput && s.Input == "" {
		return nil, model.NewCLIError(model.ExitInvalidConfig,
			"no input SVG given (pass it as an argument, set \"input\" in the profile or CDR2DDC_INPUT)")
	}
	if s.Output == "" && s.Input != "" {
		s.Output = DefaultOutputPath(s.Input)
	}

	if p.ScaleDown != nil {
		s.Transform.ScaleDown = *p.ScaleDown
	}
	if p.ShiftX != nil {
		s.Transform.ShiftX = *p.ShiftX
	}
	if p.ShiftY != nil {
		s.Transform.ShiftY = *p.ShiftY
	}
	if err := s.Transform.Validate(); err != nil {
		return nil, model.WrapCLIError(model.ExitInvalidConfig, "invalid transform", err)
	}

	if p.SizeTolerance != nil {
		s.Extract.SizeTolerance = *p.SizeTolerance
	}
	if p.ShapeClass != "" {
		s.Extract.ShapeClass = p.ShapeClass
	}
	if p.GroupQuery != "" {
		q, err := svgexport.ParseGroupQuery(p.GroupQuery)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitInvalidConfig, "invalid group query", err)
		}
		s.Extract.Query = q
	}

	if p.Pretty != nil {
		s.Pretty = *p.Pretty
	}

	return s, nil
}

// CheckOutput reports an error when the output path would overwrite the
// input. Only commands that write Output need to call it.
//
// Returns a CLIError with ExitInvalidConfig.
func (s *Settings) CheckOutput() error {
	if s.Input != "" && s.Output != "" && filepath.Clean(s.Input) == filepath.Clean(s.Output) {
		return model.NewCLIError(model.ExitInvalidConfig,
			fmt.Sprintf("output path %s is the same as the input", s.Output))
	}
	return nil
}

// DefaultOutputPath replaces the extension of input with ".ddc".
//
// Example:
//
//	drawings/dracon.svg → drawings/dracon.ddc
func DefaultOutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + OutputExt
}
