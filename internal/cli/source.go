// Package cli — source.go holds the flags and steps shared by the convert
// and inspect commands: resolving the configuration layers and reading
// circles from the input SVG.
package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/cdr2ddc/internal/model"
	"github.com/shinji-kodama/cdr2ddc/internal/profile"
	"github.com/shinji-kodama/cdr2ddc/internal/svgexport"
)

// sourceFlags holds the flags common to every command that reads an SVG.
type sourceFlags struct {
	// config is the path of a YAML or JSONC profile file.
	config string

	// envFile is the path of a dotenv file with CDR2DDC_* variables.
	envFile string

	scaleDown     float64
	shiftX        float64
	shiftY        float64
	sizeTolerance int
	groupQuery    string
	shapeClass    string
}

// register binds the flags to cmd.
func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "",
		"Profile file with conversion settings (.yaml, .yml, .json, .jsonc)")
	cmd.Flags().StringVar(&f.envFile, "env-file", ".env",
		"Dotenv file with CDR2DDC_* variables (ignored if missing unless set explicitly)")
	cmd.Flags().Float64Var(&f.scaleDown, "scale-down", 1,
		"Divisor applied to all lengths")
	cmd.Flags().Float64Var(&f.shiftX, "shift-x", 0,
		"Value subtracted from x after scaling")
	cmd.Flags().Float64Var(&f.shiftY, "shift-y", 0,
		"Value subtracted from y after scaling")
	cmd.Flags().IntVar(&f.sizeTolerance, "size-tolerance", svgexport.DefaultSizeTolerance,
		"Largest accepted difference between bounding box width and height in pixels (negative disables the check)")
	cmd.Flags().StringVar(&f.groupQuery, "group-query", svgexport.DefaultGroupQuery.String(),
		"Query locating the group that holds the shapes")
	cmd.Flags().StringVar(&f.shapeClass, "shape-class", svgexport.ClosedBezierShapeClass,
		"Class attribute marking circle shapes")
}

// flagLayer returns the layer set by the command line: the positional input
// and every flag the user changed. Unchanged flags are left unset so that
// profile files and the environment are not overridden by flag defaults.
func (f *sourceFlags) flagLayer(cmd *cobra.Command, args []string) *profile.Profile {
	p := &profile.Profile{}
	if len(args) > 0 {
		p.Input = args[0]
	}

	changed := cmd.Flags().Changed
	if changed("scale-down") {
		p.ScaleDown = &f.scaleDown
	}
	if changed("shift-x") {
		p.ShiftX = &f.shiftX
	}
	if changed("shift-y") {
		p.ShiftY = &f.shiftY
	}
	if changed("size-tolerance") {
		p.SizeTolerance = &f.sizeTolerance
	}
	if changed("group-query") {
		p.GroupQuery = f.groupQuery
	}
	if changed("shape-class") {
		p.ShapeClass = f.shapeClass
	}
	return p
}

// resolve combines defaults, the profile file, the environment and the
// command line (in that order of precedence) into Settings. extra is
// applied last for command-specific flags.
func (f *sourceFlags) resolve(cmd *cobra.Command, args []string, extra *profile.Profile) (*profile.Settings, error) {
	merged := profile.Profile{}

	if f.config != "" {
		fromFile, err := profile.LoadFile(f.config)
		if err != nil {
			return nil, err
		}
		VerboseLog("Loaded profile %s", f.config)
		merged = merged.Merge(fromFile)
	}

	lookup, err := profile.Environment(f.envFile, cmd.Flags().Changed("env-file"), func(err error) {
		VerboseLog("%v", err)
	})
	if err != nil {
		return nil, err
	}
	fromEnv, err := profile.FromEnv(lookup)
	if err != nil {
		return nil, err
	}
	merged = merged.Merge(fromEnv)

	merged = merged.Merge(f.flagLayer(cmd, args))
	merged = merged.Merge(extra)

	settings, err := merged.Resolve(true)
	if err != nil {
		return nil, err
	}
	VerboseLog("Input: %s", settings.Input)
	VerboseLog("Transform: scale-down=%v shift-x=%v shift-y=%v",
		settings.Transform.ScaleDown, settings.Transform.ShiftX, settings.Transform.ShiftY)
	VerboseLog("Group query: %s", settings.Extract.Query)
	return settings, nil
}

// extractCircles loads the input SVG and extracts its circles, translating
// failures into CLIErrors with the matching exit code.
func extractCircles(settings *profile.Settings) (*svgexport.Result, error) {
	doc, err := svgexport.Load(settings.Input)
	if err != nil {
		return nil, sourceError(settings.Input, err)
	}

	result, err := svgexport.Extract(doc, settings.Extract)
	if err != nil {
		return nil, sourceError(settings.Input, err)
	}

	VerboseLog("viewBox: %s", result.ViewBox)
	VerboseLog("Found %d circles, skipped %d other elements", len(result.Circles), result.Skipped)
	return result, nil
}

// sourceError maps an error from reading the input to a CLIError.
func sourceError(input string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return model.WrapCLIError(model.ExitInputNotFound,
			fmt.Sprintf("input SVG not found: %s", input), err)
	case errors.Is(err, svgexport.ErrStructure):
		return model.WrapCLIError(model.ExitStructureError,
			fmt.Sprintf("failed to read circles from %s", input), err)
	default:
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to read %s", input), err)
	}
}
