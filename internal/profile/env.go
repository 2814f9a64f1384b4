package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/shinji-kodama/cdr2ddc/internal/model"
)

// EnvPrefix is the prefix of every environment variable read by FromEnv.
const EnvPrefix = "CDR2DDC_"

// Environment variable names.
const (
	EnvInput         = EnvPrefix + "INPUT"
	EnvOutput        = EnvPrefix + "OUTPUT"
	EnvScaleDown     = EnvPrefix + "SCALE_DOWN"
	EnvShiftX        = EnvPrefix + "SHIFT_X"
	EnvShiftY        = EnvPrefix + "SHIFT_Y"
	EnvSizeTolerance = EnvPrefix + "SIZE_TOLERANCE"
	EnvGroupQuery    = EnvPrefix + "GROUP_QUERY"
	EnvShapeClass    = EnvPrefix + "SHAPE_CLASS"
	EnvPretty        = EnvPrefix + "PRETTY"
)

// LookupFunc looks up a configuration variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Environment returns a LookupFunc over the process environment and the
// dotenv file at dotenvPath. Process variables take precedence over the
// file, matching godotenv.Load.
//
// Unless required is true, a dotenv file that is missing or cannot be
// parsed is not an error: it is passed to ignored (when non-nil) and only
// the process environment is used. The file is read with godotenv.Read so
// the process environment itself is never modified.
func Environment(dotenvPath string, required bool, ignored func(error)) (LookupFunc, error) {
	values := map[string]string{}
	if dotenvPath != "" {
		read, err := godotenv.Read(dotenvPath)
		switch {
		case err == nil:
			values = read
		case required:
			return nil, model.WrapCLIError(model.ExitInvalidConfig,
				fmt.Sprintf("failed to read env file %s", dotenvPath), err)
		case ignored != nil && !errors.Is(err, fs.ErrNotExist):
			ignored(fmt.Errorf("ignoring env file %s: %w", dotenvPath, err))
		}
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}, nil
}

// FromEnv builds a Profile from CDR2DDC_* variables. Empty values are
// treated as unset.
//
// Returns a CLIError with ExitInvalidConfig when a numeric or boolean
// variable cannot be parsed.
func FromEnv(lookup LookupFunc) (*Profile, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	p := &Profile{
		Input:      get(EnvInput),
		Output:     get(EnvOutput),
		GroupQuery: get(EnvGroupQuery),
		ShapeClass: get(EnvShapeClass),
	}

	var err error
	if p.ScaleDown, err = envFloat(EnvScaleDown, get(EnvScaleDown)); err != nil {
		return nil, err
	}
	if p.ShiftX, err = envFloat(EnvShiftX, get(EnvShiftX)); err != nil {
		return nil, err
	}
	if p.ShiftY, err = envFloat(EnvShiftY, get(EnvShiftY)); err != nil {
		return nil, err
	}

	if raw := get(EnvSizeTolerance); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitInvalidConfig,
				fmt.Sprintf("invalid %s=%q", EnvSizeTolerance, raw), err)
		}
		p.SizeTolerance = &v
	}

	if raw := get(EnvPretty); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitInvalidConfig,
				fmt.Sprintf("invalid %s=%q", EnvPretty, raw), err)
		}
		p.Pretty = &v
	}

	return p, nil
}

func envFloat(key, raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitInvalidConfig,
			fmt.Sprintf("invalid %s=%q", key, raw), err)
	}
	return &v, nil
}
