// Package cli — convert.go implements the "cdr2ddc convert" command.
//
// The convert command reads the circles of an SVG export, maps them to the
// destination coordinate space and writes the ddc cluster file. Shapes with
// an unparseable fill are kept without a color and reported as warnings;
// structural problems abort the run before anything is written.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/cdr2ddc/internal/ddc"
	"github.com/shinji-kodama/cdr2ddc/internal/model"
	"github.com/shinji-kodama/cdr2ddc/internal/profile"
	"github.com/shinji-kodama/cdr2ddc/internal/svgexport"
	"github.com/shinji-kodama/cdr2ddc/internal/transform"
)

// convertFlags holds the flag values for the convert command.
type convertFlags struct {
	sourceFlags

	// output is the path of the ddc file to write.
	output string

	// pretty enables indented JSON in the written file.
	pretty bool
}

// NewConvertCommand creates the "convert" cobra command.
func NewConvertCommand() *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert [input.svg]",
		Short: "Convert an SVG export of circles into a ddc cluster file",
		Long: `Convert the circles of a LibreOffice Draw SVG export into a ddc cluster file.

Every closed bezier shape in the page group becomes one circle and one part
filled with the shape's color. Coordinates are divided by --scale-down and
then shifted by --shift-x/--shift-y.

Settings can also come from a profile file (--config) or CDR2DDC_*
environment variables; flags take precedence.

Examples:
  cdr2ddc convert dracon.svg
  cdr2ddc convert dracon.svg -o exported-cluster.ddc --scale-down 15 --shift-x 100
  cdr2ddc convert --config dracon.yaml --json`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			extra := &profile.Profile{Output: flags.output}
			if cmd.Flags().Changed("pretty") {
				extra.Pretty = &flags.pretty
			}

			settings, err := flags.resolve(cmd, args, extra)
			if err != nil {
				return err
			}
			return runConvert(cmd.OutOrStdout(), settings)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"Output ddc file (default: input path with .ddc extension)")
	cmd.Flags().BoolVar(&flags.pretty, "pretty", false, "Indent the written JSON")

	return cmd
}

// convertResultJSON is the JSON output of the convert command.
type convertResultJSON struct {
	Input    string              `json:"input"`
	Output   string              `json:"output"`
	Circles  int                 `json:"circles"`
	Skipped  int                 `json:"skipped"`
	Warnings []svgexport.Warning `json:"warnings"`
}

// runConvert is the main logic function for the convert command.
func runConvert(w io.Writer, settings *profile.Settings) error {
	if err := settings.CheckOutput(); err != nil {
		return err
	}

	// Step 1: Extract circles. Structural errors abort here, before the
	// output file is touched.
	result, err := extractCircles(settings)
	if err != nil {
		return err
	}

	// Step 2: Per-shape warnings are reported and the run continues.
	if !IsJSONOutput() {
		printWarnings(w, result.Warnings)
	}

	// Step 3: Map to destination space and build the cluster.
	circles := transform.Apply(settings.Transform, result.Circles)
	cluster, err := ddc.NewCluster(result.Circles, circles)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to build cluster", err)
	}

	// Step 4: Encode and write atomically.
	if err := ddc.WriteFile(settings.Output, cluster, settings.Pretty); err != nil {
		return writeError(settings.Output, err)
	}
	VerboseLog("Wrote %s", settings.Output)

	if IsJSONOutput() {
		warnings := result.Warnings
		if warnings == nil {
			warnings = []svgexport.Warning{}
		}
		return printJSON(w, convertResultJSON{
			Input:    settings.Input,
			Output:   settings.Output,
			Circles:  len(cluster.Circles),
			Skipped:  result.Skipped,
			Warnings: warnings,
		})
	}

	fmt.Fprintf(w, "%d circles written to %s\n", len(cluster.Circles), settings.Output)
	return nil
}

// writeError maps an error from ddc.WriteFile to a CLIError: encoding
// failures are serialization errors, anything else a failed write.
func writeError(output string, err error) error {
	if errors.Is(err, ddc.ErrEncoding) {
		return model.WrapCLIError(model.ExitSerializationError, "refusing to write invalid cluster", err)
	}
	return model.WrapCLIError(model.ExitWriteFailed, fmt.Sprintf("failed to write %s", output), err)
}

// printWarnings writes one diagnostic line per warning.
func printWarnings(w io.Writer, warnings []svgexport.Warning) {
	for _, warning := range warnings {
		fmt.Fprintln(w, warning.String())
	}
}
