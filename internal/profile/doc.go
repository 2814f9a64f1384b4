// Package profile resolves the configuration of a conversion run.
//
// A conversion is configured from four layers, each overriding the
// previous one:
//
//   - built-in defaults (scale-down 1, no shift, 1px size tolerance)
//   - a profile file, YAML (.yaml/.yml) or JSON with comments (.json/.jsonc)
//   - CDR2DDC_* environment variables, optionally read from a .env file
//   - command-line flags
//
// Every layer is a Profile whose nil/empty fields mean "not set". Layers are
// combined with Merge and turned into validated Settings with Resolve.
//
// JSONC (JSON with Comments) is supported via github.com/tidwall/jsonc and
// YAML via gopkg.in/yaml.v3, so a profile can be kept next to the drawing
// with notes on why a given scale was chosen.
package profile
