package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseColor parses "#RRGGBB" or "#AARRGGBB" into an ARGB value. The
// six-digit form is fully opaque.
func ParseColor(s string) (uint32, error) {
	hex, ok := strings.CutPrefix(strings.TrimSpace(s), "#")
	if !ok {
		return 0, fmt.Errorf("color %q must start with '#'", s)
	}
	if len(hex) != 6 && len(hex) != 8 {
		return 0, fmt.Errorf("color %q must be #RRGGBB or #AARRGGBB", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q is not hexadecimal", s)
	}
	if len(hex) == 6 {
		v |= 0xFF000000
	}
	return uint32(v), nil
}

// FormatColor renders an ARGB value as "#AARRGGBB".
func FormatColor(argb uint32) string {
	return fmt.Sprintf("#%08x", argb)
}
