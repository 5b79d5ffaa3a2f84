package wizard

import (
	"errors"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	errNotNumber  = errors.New("not a number")
	errOutOfRange = errors.New("out of range")
)

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func isToken(s string, tokens []string) bool {
	return slices.Contains(tokens, normalize(s))
}

// parseChoice accepts a plain decimal number within [lo, hi]. Signs and
// any other non-digit characters are rejected.
func parseChoice(s string, lo, hi int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return 0, errNotNumber
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errNotNumber
	}
	if n < lo || n > hi {
		return 0, errOutOfRange
	}
	return n, nil
}

// parseMultiSelect reads a comma-separated list of 1-based indices into a
// list of n options. Any bad token rejects the whole input. Duplicates are
// collapsed keeping the first occurrence.
func parseMultiSelect(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		idx, err := parseChoice(p, 1, n)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, idx-1) {
			out = append(out, idx-1)
		}
	}
	return out, nil
}

// parseColor accepts RRGGBB hex with an optional leading '#'.
func parseColor(s string) (int, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if s == "" || len(s) > 6 {
		return 0, errOutOfRange
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, errNotNumber
	}
	return int(v), nil
}

func tooLong(s string, max int) bool {
	return utf8.RuneCountInString(s) > max
}

func isImageURL(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
