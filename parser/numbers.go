package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseNumber parses a NUMBER token literal in decimal, hex (0x/0X),
// alternate hex (&), octal (0o/0O) or binary (0b/0B), with '_' permitted
// as a digit separator.
func ParseNumber(literal string) (uint32, error) {
	s := strings.ReplaceAll(literal, "_", "")
	var base int
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s, base = s[2:], 16
	case strings.HasPrefix(s, "&"):
		s, base = s[1:], 16
	case strings.HasPrefix(s, "0b"), strings.HasPrefix(s, "0B"):
		s, base = s[2:], 2
	case strings.HasPrefix(s, "0o"), strings.HasPrefix(s, "0O"):
		s, base = s[2:], 8
	default:
		base = 10
	}
	if s == "" {
		return 0, fmt.Errorf("empty numeric literal %q", literal)
	}
	v, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric literal %q: %w", literal, err)
	}
	return uint32(v), nil
}
