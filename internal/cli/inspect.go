// Package cli — inspect.go implements the "cdr2ddc inspect" command.
//
// The inspect command shows the circles that convert would write, with
// both their source and destination coordinates, without writing anything.
// It helps choosing --scale-down and --shift-x/--shift-y for a drawing.
package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/cdr2ddc/internal/model"
	"github.com/shinji-kodama/cdr2ddc/internal/profile"
	"github.com/shinji-kodama/cdr2ddc/internal/svgexport"
	"github.com/shinji-kodama/cdr2ddc/internal/transform"
)

// NewInspectCommand creates the "inspect" cobra command.
func NewInspectCommand() *cobra.Command {
	flags := &sourceFlags{}

	cmd := &cobra.Command{
		Use:   "inspect [input.svg]",
		Short: "List the circles found in an SVG export",
		Long: `List the circles found in a LibreOffice Draw SVG export.

Each circle is shown with its id, center and radius in SVG pixels, its
color, and its coordinates after the configured scale and shift.

Examples:
  cdr2ddc inspect dracon.svg
  cdr2ddc inspect dracon.svg --scale-down 15 --shift-x 100
  cdr2ddc inspect dracon.svg --json`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := flags.resolve(cmd, args, nil)
			if err != nil {
				return err
			}
			return runInspect(cmd.OutOrStdout(), settings)
		},
	}

	flags.register(cmd)

	return cmd
}

// inspectCircleJSON is the JSON output structure for one circle.
type inspectCircleJSON struct {
	ID     string             `json:"id"`
	Source model.RawCircle    `json:"source"`
	Output model.OutputCircle `json:"output"`
}

// inspectResultJSON is the JSON output of the inspect command.
type inspectResultJSON struct {
	Input     string              `json:"input"`
	ViewBox   svgexport.ViewBox   `json:"viewBox"`
	Transform transform.Params    `json:"transform"`
	Circles   []inspectCircleJSON `json:"circles"`
	Skipped   int                 `json:"skipped"`
	Warnings  []svgexport.Warning `json:"warnings"`
}

func runInspect(w io.Writer, settings *profile.Settings) error {
	result, err := extractCircles(settings)
	if err != nil {
		return err
	}
	out := transform.Apply(settings.Transform, result.Circles)

	if IsJSONOutput() {
		res := inspectResultJSON{
			Input:     settings.Input,
			ViewBox:   result.ViewBox,
			Transform: settings.Transform,
			Circles:   make([]inspectCircleJSON, 0, len(result.Circles)),
			Skipped:   result.Skipped,
			Warnings:  result.Warnings,
		}
		if res.Warnings == nil {
			res.Warnings = []svgexport.Warning{}
		}
		for i, c := range result.Circles {
			res.Circles = append(res.Circles, inspectCircleJSON{ID: c.ID, Source: c, Output: out[i]})
		}
		return printJSON(w, res)
	}

	printInspectText(w, result, out)
	return nil
}

// printInspectText outputs the circles as a text table followed by a
// summary and the warnings.
//
// The table format is:
//
//	ID       X         Y         R        COLOR     X'        Y'        RADIUS
//	id3      1500      300       150      #ff0000   0         20        10
func printInspectText(w io.Writer, result *svgexport.Result, out []model.OutputCircle) {
	fmt.Fprintf(w, "viewBox: %s\n", result.ViewBox)

	if len(result.Circles) == 0 {
		fmt.Fprintln(w, "No circles found.")
	} else {
		fmt.Fprintf(w, "%-10s %-10s %-10s %-10s %-9s %-10s %-10s %s\n",
			"ID", "X", "Y", "R", "COLOR", "X'", "Y'", "RADIUS")
		for i, c := range result.Circles {
			fmt.Fprintf(w, "%-10s %-10s %-10s %-10s %-9s %-10s %-10s %s\n",
				c.ID,
				FormatNumber(c.X),
				FormatNumber(c.Y),
				FormatNumber(c.R),
				c.ColorString(),
				FormatNumber(out[i].X),
				FormatNumber(out[i].Y),
				FormatNumber(out[i].Radius),
			)
		}
	}

	fmt.Fprintf(w, "%d circles, %d other elements skipped\n", len(result.Circles), result.Skipped)
	printWarnings(w, result.Warnings)
}

// FormatNumber formats a coordinate with at most 4 decimals and no
// trailing zeros.
//
// Example:
//
//	150      → "150"
//	130.5    → "130.5"
//	6.666667 → "6.6667"
func FormatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 4, 64)
	// Trim trailing zeros, then a dangling decimal point.
	for len(s) > 0 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	if s == "-0" {
		s = "0"
	}
	return s
}
