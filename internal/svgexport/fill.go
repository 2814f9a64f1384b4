package svgexport

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shinji-kodama/cdr2ddc/internal/model"
)

// fillPrefixLen is the number of leading characters of a fill value that
// are skipped before the RGB tuple ("rgb" in "rgb(255,0,0)").
const fillPrefixLen = 3

// ParseFill converts a LibreOffice fill value such as "rgb(255,0,0)" into a
// "#rrggbb" color.
//
// The first three characters are skipped and the remainder must be a tuple
// or list literal of exactly three integers in [0, 255]:
// "(255, 0, 0)", "(255,0,0,)" and "[255,0,0]" are all accepted.
func ParseFill(raw string) (string, error) {
	runes := []rune(raw)
	if len(runes) < fillPrefixLen {
		return "", fmt.Errorf("fill value %q is too short", raw)
	}

	components, err := parseIntTuple(string(runes[fillPrefixLen:]))
	if err != nil {
		return "", err
	}
	if len(components) != 3 {
		return "", fmt.Errorf("expected 3 color components, got %d", len(components))
	}
	return model.FormatHexColor(components[0], components[1], components[2])
}

// parseIntTuple parses "(a, b, ...)" or "[a, b, ...]" into integers.
// A single trailing comma is allowed.
func parseIntTuple(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return nil, fmt.Errorf("invalid tuple literal %q", s)
	}

	open, closing := s[0], s[len(s)-1]
	if !(open == '(' && closing == ')') && !(open == '[' && closing == ']') {
		return nil, fmt.Errorf("invalid tuple literal %q", s)
	}

	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return []int{}, nil
	}
	inner = strings.TrimSuffix(inner, ",")

	items := strings.Split(inner, ",")
	values := make([]int, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		v, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q in tuple literal %q", item, s)
		}
		values = append(values, v)
	}
	return values, nil
}
