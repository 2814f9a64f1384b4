// Package ddc builds and writes cluster documents in the ddc format, the
// JSON file format of the circle-diagramming application.
//
// A ddc document produced here is a single Cluster whose parts are
// degenerate: part i is exactly circle i, filled with that circle's color.
//
// Serialization refuses non-finite numbers. The document is encoded fully
// in memory before anything touches the filesystem, and the output file is
// replaced atomically, so a failed run never leaves a half-written file.
package ddc

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/moby/sys/atomicwriter"

	"github.com/shinji-kodama/cdr2ddc/internal/model"
)

// ErrNonFinite is wrapped by errors reporting a NaN or infinite number in
// a cluster.
var ErrNonFinite = errors.New("non-finite number in cluster")

// ErrEncoding is wrapped by every error from Marshal, so callers can tell
// an unencodable cluster from a failed write.
var ErrEncoding = errors.New("failed to encode cluster")

// FileMode is the permission of written ddc files.
const FileMode os.FileMode = 0o644

// NewCluster builds a Cluster from the extracted circles (for fill colors)
// and their transformed counterparts. Both slices must have the same
// length and order.
func NewCluster(raw []model.RawCircle, circles []model.OutputCircle) (*model.Cluster, error) {
	if len(raw) != len(circles) {
		return nil, fmt.Errorf("cluster: %d extracted circles but %d transformed circles", len(raw), len(circles))
	}

	cluster := &model.Cluster{
		Type: model.ClusterType,
		// Empty slices, not nil, so an empty drawing encodes as [] not null.
		Circles: make([]model.OutputCircle, 0, len(circles)),
		Parts:   make([]model.Part, 0, len(circles)),
	}

	for i := range circles {
		cluster.Circles = append(cluster.Circles, circles[i])
		cluster.Parts = append(cluster.Parts, model.Part{
			Insides:   []int{i},
			Outsides:  []int{},
			FillColor: raw[i].Color,
		})
	}
	return cluster, nil
}

// Validate checks the cluster invariants and that every coordinate is
// finite. Non-finite values wrap ErrNonFinite and name the circle and field.
func Validate(cluster *model.Cluster) error {
	if err := cluster.Validate(); err != nil {
		return err
	}
	for i, c := range cluster.Circles {
		fields := []struct {
			name  string
			value float64
		}{
			{"x", c.X},
			{"y", c.Y},
			{"radius", c.Radius},
		}
		for _, f := range fields {
			if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
				return fmt.Errorf("%w: circle %d %s is %v", ErrNonFinite, i, f.name, f.value)
			}
		}
	}
	return nil
}

// Marshal validates the cluster and encodes it as JSON, compact or with
// 2-space indentation. Errors wrap ErrEncoding.
func Marshal(cluster *model.Cluster, indent bool) ([]byte, error) {
	if err := Validate(cluster); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}

	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(cluster, "", "  ")
	} else {
		data, err = json.Marshal(cluster)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}

	// Trailing newline so the file is a well-formed text file.
	return append(data, '\n'), nil
}

// WriteFile encodes the cluster and atomically replaces the file at path.
// Encoding errors are returned before the filesystem is touched.
func WriteFile(path string, cluster *model.Cluster, indent bool) error {
	data, err := Marshal(cluster, indent)
	if err != nil {
		return err
	}
	if err := atomicwriter.WriteFile(path, data, FileMode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
