// Package cli — convert_test.go runs the convert and inspect commands end
// to end against synthetic LibreOffice exports written to temp dirs.
package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/cdr2ddc/internal/ddc"
	"github.com/shinji-kodama/cdr2ddc/internal/model"
)

// circleShape renders one LibreOffice closed bezier shape.
func circleShape(id string, x, y, w, h int, fill string) string {
	return fmt.Sprintf(`<g class="com.sun.star.drawing.ClosedBezierShape"><g id="%s">`+
		`<rect class="BoundingBox" stroke="none" fill="none" x="%d" y="%d" width="%d" height="%d"/>`+
		`<path fill="%s" stroke="none" d="M 0,0 Z"/></g></g>`, id, x, y, w, h, fill)
}

const lineShape = `<g class="com.sun.star.drawing.LineShape"><g id="line1">` +
	`<rect class="BoundingBox" x="0" y="0" width="100" height="2"/><path fill="none" d="M 0,1 L 100,1"/></g></g>`

// writeSVG writes a LibreOffice Draw style export holding shapes and
// returns its path.
func writeSVG(t *testing.T, dir string, shapes ...string) string {
	t.Helper()
	svg := `<?xml version="1.0" encoding="UTF-8"?>` +
		`<svg viewBox="0 0 21000 29700" xmlns="http://www.w3.org/2000/svg">` +
		`<g class="SlideGroup"><g><g id="container-id1"><g id="id1" class="Slide">` +
		`<g class="Page"><g class="Group">` + strings.Join(shapes, "") +
		`</g></g></g></g></g></g></svg>`
	path := filepath.Join(dir, "drawing.svg")
	require.NoError(t, os.WriteFile(path, []byte(svg), 0o644))
	return path
}

// runCLI executes the root command with args and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// TestConvert_SingleCircle checks the exact document for one red circle
// with the default scale and shift.
func TestConvert_SingleCircle(t *testing.T) {
	dir := t.TempDir()
	input := writeSVG(t, dir, circleShape("id3", 0, 0, 30, 30, "rgb(255,0,0)"))
	output := filepath.Join(dir, "out.ddc")

	stdout, err := runCLI(t, "convert", input, "-o", output)
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"type":"Cluster","circles":[{"x":15.0,"y":15.0,"radius":15.0}],"parts":[{"insides":[0],"outsides":[],"fillColor":"#ff0000"}]}`,
		readFile(t, output))
	assert.Equal(t, fmt.Sprintf("1 circles written to %s\n", output), stdout)
}

func TestConvert_ScaleAndShift(t *testing.T) {
	dir := t.TempDir()
	// Center (1500, 300), radius 150.
	input := writeSVG(t, dir, circleShape("id3", 1350, 150, 300, 300, "rgb(0,0,255)"))
	output := filepath.Join(dir, "out.ddc")

	_, err := runCLI(t, "convert", input, "-o", output, "--scale-down", "15", "--shift-x", "100", "--shift-y", "0")
	require.NoError(t, err)

	var cluster model.Cluster
	require.NoError(t, json.Unmarshal([]byte(readFile(t, output)), &cluster))
	require.Len(t, cluster.Circles, 1)
	assert.InDelta(t, 0, cluster.Circles[0].X, 1e-9)
	assert.InDelta(t, 20, cluster.Circles[0].Y, 1e-9)
	assert.InDelta(t, 10, cluster.Circles[0].Radius, 1e-9)
}

// TestConvert_BadFillAndNonCircles verifies that a bad fill degrades to a
// null color with a warning, and non-circle shapes are excluded from both
// circles and parts.
func TestConvert_BadFillAndNonCircles(t *testing.T) {
	dir := t.TempDir()
	input := writeSVG(t, dir,
		circleShape("id3", 0, 0, 10, 10, "rgb(0,128,0)"),
		lineShape,
		circleShape("id5", 20, 0, 10, 10, "url(#gradient1)"),
	)
	output := filepath.Join(dir, "out.ddc")

	stdout, err := runCLI(t, "convert", input, "-o", output)
	require.NoError(t, err)

	assert.Contains(t, stdout, `warning: shape id5: unparseable fill "url(#gradient1)"`)
	assert.Contains(t, stdout, "2 circles written")

	var cluster model.Cluster
	require.NoError(t, json.Unmarshal([]byte(readFile(t, output)), &cluster))
	require.Len(t, cluster.Circles, 2)
	require.Len(t, cluster.Parts, 2)
	for i, p := range cluster.Parts {
		assert.Equal(t, []int{i}, p.Insides)
		assert.Equal(t, []int{}, p.Outsides)
	}
	require.NotNil(t, cluster.Parts[0].FillColor)
	assert.Equal(t, "#008000", *cluster.Parts[0].FillColor)
	assert.Nil(t, cluster.Parts[1].FillColor)
	assert.Contains(t, readFile(t, output), `"fillColor":null`)
}

func TestConvert_DefaultOutputPath(t *testing.T) {
	dir := t.TempDir()
	input := writeSVG(t, dir, circleShape("id3", 0, 0, 10, 10, "rgb(0,0,0)"))

	_, err := runCLI(t, "convert", input)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "drawing.ddc"))
}

func TestConvert_Pretty(t *testing.T) {
	dir := t.TempDir()
	input := writeSVG(t, dir, circleShape("id3", 0, 0, 10, 10, "rgb(0,0,0)"))
	output := filepath.Join(dir, "out.ddc")

	_, err := runCLI(t, "convert", input, "-o", output, "--pretty")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, output), "\n  \"circles\": [")
}

func TestConvert_JSONOutput(t *testing.T) {
	dir := t.TempDir()
	input := writeSVG(t, dir,
		circleShape("id3", 0, 0, 10, 10, "none"),
		lineShape,
	)
	output := filepath.Join(dir, "out.ddc")

	stdout, err := runCLI(t, "convert", input, "-o", output, "--json")
	require.NoError(t, err)

	var res convertResultJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.Equal(t, input, res.Input)
	assert.Equal(t, output, res.Output)
	assert.Equal(t, 1, res.Circles)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "id3", res.Warnings[0].ShapeID)
}

// TestConvert_ProfileAndFlagPrecedence verifies the profile supplies
// settings and explicit flags override it.
func TestConvert_ProfileAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeSVG(t, dir, circleShape("id3", 1350, 150, 300, 300, "rgb(0,0,0)"))
	config := filepath.Join(dir, "dracon.yaml")
	require.NoError(t, os.WriteFile(config, []byte(
		"input: drawing.svg\noutput: cluster.ddc\nscale_down: 15\nshift_x: 100\n"), 0o644))

	_, err := runCLI(t, "convert", "--config", config, "--shift-x", "0")
	require.NoError(t, err)

	var cluster model.Cluster
	require.NoError(t, json.Unmarshal([]byte(readFile(t, filepath.Join(dir, "cluster.ddc"))), &cluster))
	require.Len(t, cluster.Circles, 1)
	assert.InDelta(t, 100, cluster.Circles[0].X, 1e-9, "shift-x flag overrides the profile")
	assert.InDelta(t, 20, cluster.Circles[0].Y, 1e-9)
	assert.InDelta(t, 10, cluster.Circles[0].Radius, 1e-9)
}

func TestConvert_EnvFile(t *testing.T) {
	dir := t.TempDir()
	input := writeSVG(t, dir, circleShape("id3", 1350, 150, 300, 300, "rgb(0,0,0)"))
	output := filepath.Join(dir, "out.ddc")
	envFile := filepath.Join(dir, "settings.env")
	require.NoError(t, os.WriteFile(envFile, []byte("CDR2DDC_SCALE_DOWN=15\nCDR2DDC_SHIFT_X=100\n"), 0o644))

	_, err := runCLI(t, "convert", input, "-o", output, "--env-file", envFile)
	require.NoError(t, err)

	var cluster model.Cluster
	require.NoError(t, json.Unmarshal([]byte(readFile(t, output)), &cluster))
	assert.InDelta(t, 0, cluster.Circles[0].X, 1e-9)
}

// TestConvert_MalformedImplicitEnvFile verifies an unparseable .env in the
// working directory, which may belong to another tool, does not stop a run.
func TestConvert_MalformedImplicitEnvFile(t *testing.T) {
	dir := t.TempDir()
	writeSVG(t, dir, circleShape("id3", 1350, 150, 300, 300, "rgb(0,0,0)"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("OTHER_TOOL='unterminated\n"), 0o644))
	prevWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prevWD) })

	_, err = runCLI(t, "convert", "drawing.svg", "-o", "out.ddc")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "out.ddc"))

	// Naming the same file explicitly is still an error.
	_, err = runCLI(t, "convert", "drawing.svg", "-o", "explicit.ddc", "--env-file", ".env")
	require.Error(t, err)
	assert.Equal(t, model.ExitInvalidConfig, ExitCodeFor(err))
	assert.NoFileExists(t, filepath.Join(dir, "explicit.ddc"))
}

// TestConvert_Errors verifies the exit code of each fatal error and that
// no output file is left behind.
func TestConvert_Errors(t *testing.T) {
	tests := []struct {
		name  string
		svg   string
		args  []string
		code  model.ExitCode
		input bool // write the SVG and pass it as the input argument
	}{
		{
			name:  "missing input file",
			args:  []string{filepath.Join("does", "not", "exist.svg")},
			code:  model.ExitInputNotFound,
			input: false,
		},
		{
			name:  "missing viewBox",
			svg:   `<svg xmlns="http://www.w3.org/2000/svg"><g class="SlideGroup"/></svg>`,
			code:  model.ExitStructureError,
			input: true,
		},
		{
			name:  "missing shape group",
			svg:   `<svg viewBox="0 0 1 1" xmlns="http://www.w3.org/2000/svg"><g class="SlideGroup"><g class="Slide"/></g></svg>`,
			code:  model.ExitStructureError,
			input: true,
		},
		{
			name:  "malformed XML",
			svg:   `<svg viewBox="0 0 1 1"><g>`,
			code:  model.ExitStructureError,
			input: true,
		},
		{
			name:  "invalid scale",
			svg:   `<svg viewBox="0 0 1 1"/>`,
			args:  []string{"--scale-down", "0"},
			code:  model.ExitInvalidConfig,
			input: true,
		},
		{
			name:  "non-finite coordinates",
			args:  []string{"--scale-down", "1e-320"},
			code:  model.ExitSerializationError,
			input: true,
		},
		{
			name:  "missing explicit env file",
			svg:   `<svg viewBox="0 0 1 1"/>`,
			args:  []string{"--env-file", "missing.env"},
			code:  model.ExitInvalidConfig,
			input: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			output := filepath.Join(dir, "out.ddc")
			args := []string{"convert", "-o", output}

			if tt.input {
				var input string
				if tt.svg == "" {
					input = writeSVG(t, dir, circleShape("id3", 1350, 150, 300, 300, "rgb(0,0,0)"))
				} else {
					input = filepath.Join(dir, "input.svg")
					require.NoError(t, os.WriteFile(input, []byte(tt.svg), 0o644))
				}
				args = append(args, input)
			}
			args = append(args, tt.args...)

			_, err := runCLI(t, args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, ExitCodeFor(err))
			assert.NoFileExists(t, output)
		})
	}
}

func TestConvert_NoInput(t *testing.T) {
	_, err := runCLI(t, "convert", "--env-file", "")
	require.Error(t, err)
	assert.Equal(t, model.ExitInvalidConfig, ExitCodeFor(err))
}

// TestWriteError verifies only filesystem failures map to the write exit
// code; a cluster that cannot be encoded is a serialization error.
func TestWriteError(t *testing.T) {
	dir := t.TempDir()
	invalid := &model.Cluster{Type: model.ClusterType, Circles: []model.OutputCircle{{Radius: 1}}, Parts: []model.Part{}}
	empty, err := ddc.NewCluster(nil, nil)
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		cluster *model.Cluster
		code    model.ExitCode
	}{
		{"invalid cluster", filepath.Join(dir, "invalid.ddc"), invalid, model.ExitSerializationError},
		{"missing directory", filepath.Join(dir, "no", "such", "out.ddc"), empty, model.ExitWriteFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeErr := ddc.WriteFile(tt.path, tt.cluster, false)
			require.Error(t, writeErr)
			assert.Equal(t, tt.code, ExitCodeFor(writeError(tt.path, writeErr)))
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	assert.Equal(t, model.ExitSuccess, ExitCodeFor(nil))
	assert.Equal(t, model.ExitGeneralError, ExitCodeFor(assert.AnError))
	assert.Equal(t, model.ExitWriteFailed,
		ExitCodeFor(fmt.Errorf("wrapped: %w", model.NewCLIError(model.ExitWriteFailed, "disk full"))))
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, "failed to write out.ddc", assert.AnError)
	assert.Equal(t, "Error: failed to write out.ddc: "+assert.AnError.Error()+"\n", buf.String())

	buf.Reset()
	printError(&buf, "no input SVG given", nil)
	assert.Equal(t, "Error: no input SVG given\n", buf.String())
}
