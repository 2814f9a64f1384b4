// Package model defines the domain types for the cdr2ddc CLI.
//
// The types mirror the three stages of a conversion: RawCircle is what the
// extractor reads from the SVG (source pixel space), OutputCircle is the
// rescaled circle in destination units, and Cluster is the ddc document
// written to disk.
package model

import (
	"fmt"
	"strings"
)

// ClusterType is the value of the top-level "type" field of a ddc document.
const ClusterType = "Cluster"

// RawCircle is a circle as extracted from the SVG export, in source pixel
// coordinates.
type RawCircle struct {
	// ID is the identifier of the shape's element in the SVG.
	// It is used for diagnostics only and never written to the output.
	ID string `json:"id"`

	// X and Y are the center of the circle.
	X float64 `json:"x"`
	Y float64 `json:"y"`

	// R is the radius, derived from the bounding box width.
	R float64 `json:"r"`

	// Color is the "#rrggbb" fill color, or nil when the fill value
	// could not be parsed.
	Color *string `json:"color"`
}

// ColorString returns the fill color for display, or "-" when absent.
func (c RawCircle) ColorString() string {
	if c.Color == nil {
		return "-"
	}
	return *c.Color
}

// OutputCircle is a circle in the destination coordinate space of the
// ddc document.
type OutputCircle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// Part is a region of a cluster: the union of the "insides" circles minus
// the "outsides" circles, filled with FillColor.
//
// Parts produced by cdr2ddc are degenerate: each one is exactly one circle,
// so Insides holds a single index and Outsides is always empty.
type Part struct {
	// Insides holds indexes into Cluster.Circles.
	Insides []int `json:"insides"`

	// Outsides holds indexes into Cluster.Circles that are subtracted.
	// Serialized as [] rather than null when empty.
	Outsides []int `json:"outsides"`

	// FillColor is the "#rrggbb" color of the part, serialized as null
	// when unknown.
	FillColor *string `json:"fillColor"`
}

// Cluster is the ddc output document.
type Cluster struct {
	// Type is always ClusterType.
	Type    string         `json:"type"`
	Circles []OutputCircle `json:"circles"`
	Parts   []Part         `json:"parts"`
}

// Validate checks the structural invariants of the cluster: the type tag,
// one part per circle, and parts[i] covering exactly circle i.
func (c *Cluster) Validate() error {
	if c.Type != ClusterType {
		return fmt.Errorf("cluster: invalid type %q (expected %q)", c.Type, ClusterType)
	}
	if len(c.Circles) != len(c.Parts) {
		return fmt.Errorf("cluster: %d circles but %d parts", len(c.Circles), len(c.Parts))
	}
	for i, p := range c.Parts {
		if len(p.Insides) != 1 || p.Insides[0] != i {
			return fmt.Errorf("cluster: part %d insides %v (expected [%d])", i, p.Insides, i)
		}
		if len(p.Outsides) != 0 {
			return fmt.Errorf("cluster: part %d has outsides %v", i, p.Outsides)
		}
	}
	return nil
}

// FormatHexColor converts RGB components to a lowercase "#rrggbb" string.
// Each component must be in [0, 255].
func FormatHexColor(r, g, b int) (string, error) {
	for _, v := range []int{r, g, b} {
		if v < 0 || v > 255 {
			return "", fmt.Errorf("color component %d out of range (0-255)", v)
		}
	}
	return strings.ToLower(fmt.Sprintf("#%02x%02x%02x", r, g, b)), nil
}

// ExitCode defines the CLI exit codes.
// These codes allow scripts to programmatically determine why a
// conversion failed.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitInputNotFound indicates the input SVG file does not exist.
	ExitInputNotFound ExitCode = 2

	// ExitStructureError indicates the SVG does not have the expected
	// structure: malformed XML, missing viewBox, missing shape group,
	// or missing/malformed geometry attributes.
	ExitStructureError ExitCode = 3

	// ExitSerializationError indicates the cluster could not be encoded,
	// typically because a non-finite number reached the serializer.
	ExitSerializationError ExitCode = 4

	// ExitWriteFailed indicates the output file could not be written.
	ExitWriteFailed ExitCode = 5

	// ExitInvalidConfig indicates invalid flags, profile file or
	// environment configuration.
	ExitInvalidConfig ExitCode = 6
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
