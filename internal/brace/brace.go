// Package brace expands glob brace groups ({a,b,c} and {start..end[..step]})
// into a finite set of concrete patterns, the way a shell would before the
// pattern ever reaches the lexer.
package brace

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxExpansions caps the number of concrete patterns a single numeric range
// or nested brace group may expand to. Exceeding it is a configuration
// error rather than a slow or unbounded allocation.
const MaxExpansions = 65536

// ConfigurationError is returned when a brace expression would expand past
// MaxExpansions, or is otherwise malformed in a way brace expansion must
// reject rather than tolerate.
type ConfigurationError struct {
	Pattern string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("brace expansion of %q: %s", e.Pattern, e.Reason)
}

// Expand returns the set of concrete patterns produced by expanding every
// brace group in pattern. If nobrace is true, pattern is returned unchanged
// as the sole element — braces are left as literal text for the lexer.
func Expand(pattern string, nobrace bool) ([]string, error) {
	if nobrace || !strings.ContainsRune(pattern, '{') {
		return []string{pattern}, nil
	}
	return expandOne(pattern)
}

// expandOne expands the first (outermost, leftmost) balanced brace group in
// pattern and recurses on each resulting alternative so nested groups and
// multiple groups in the same pattern are both handled.
func expandOne(pattern string) ([]string, error) {
	open := strings.IndexByte(pattern, '{')
	if open == -1 {
		return []string{pattern}, nil
	}

	close, err := matchingBrace(pattern, open)
	if err != nil {
		// Unclosed group: tolerate like the reference — treat '{' as a literal.
		return []string{pattern}, nil
	}

	prefix := pattern[:open]
	body := pattern[open+1 : close]
	suffix := pattern[close+1:]

	alts, err := splitAlternatives(body)
	if err != nil {
		return nil, err
	}

	if len(alts) > MaxExpansions {
		return nil, &ConfigurationError{Pattern: pattern, Reason: "brace expansion exceeds safety cap"}
	}

	var results []string
	for _, alt := range alts {
		candidate := prefix + alt + suffix
		sub, err := expandOne(candidate)
		if err != nil {
			return nil, err
		}
		results = append(results, sub...)
		if len(results) > MaxExpansions {
			return nil, &ConfigurationError{Pattern: pattern, Reason: "brace expansion exceeds safety cap"}
		}
	}
	return results, nil
}

// splitAlternatives handles both forms of brace body: a numeric range
// (start..end[..step]) or a comma-delimited alternation, including the
// legal empty-alternative form "{,x}".
func splitAlternatives(body string) ([]string, error) {
	if rng, ok, err := tryNumericRange(body); err != nil {
		return nil, err
	} else if ok {
		return rng, nil
	}
	return splitTopLevelCommas(body), nil
}

// tryNumericRange recognizes "start..end" or "start..end..step". Returns
// ok=false (not an error) if body isn't shaped like a range at all.
func tryNumericRange(body string) ([]string, bool, error) {
	parts := strings.Split(body, "..")
	if len(parts) != 2 && len(parts) != 3 {
		return nil, false, nil
	}
	start, okStart := parseRangeEndpoint(parts[0])
	end, okEnd := parseRangeEndpoint(parts[1])
	if !okStart || !okEnd {
		return nil, false, nil
	}
	step := 1
	if len(parts) == 3 {
		s, err := strconv.Atoi(parts[2])
		if err != nil {
			return nil, false, nil
		}
		if s == 0 {
			return nil, true, &ConfigurationError{Pattern: body, Reason: "numeric range step must be non-zero"}
		}
		step = s
	}
	if step > 0 && start > end {
		step = -step
	} else if step < 0 && start < end {
		step = -step
	}

	width := 0
	if hasLeadingZero(parts[0]) || hasLeadingZero(parts[1]) {
		width = len(parts[0])
		if len(parts[1]) > width {
			width = len(parts[1])
		}
	}

	count := 0
	for n := start; (step > 0 && n <= end) || (step < 0 && n >= end); n += step {
		count++
		if count > MaxExpansions {
			return nil, true, &ConfigurationError{Pattern: body, Reason: "numeric range expansion exceeds safety cap"}
		}
	}

	var results []string
	for n := start; (step > 0 && n <= end) || (step < 0 && n >= end); n += step {
		results = append(results, formatRangeValue(n, width))
	}
	return results, true, nil
}

func parseRangeEndpoint(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func hasLeadingZero(s string) bool {
	s = strings.TrimPrefix(s, "-")
	return len(s) > 1 && s[0] == '0'
}

func formatRangeValue(n, width int) string {
	s := strconv.Itoa(n)
	if width == 0 {
		return s
	}
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for len(s) < width {
		s = "0" + s
	}
	if neg {
		s = "-" + s
	}
	return s
}

// splitTopLevelCommas splits body on commas that are not nested inside
// another brace group, preserving the "{,x}" empty-alternative rule.
func splitTopLevelCommas(body string) []string {
	var alts []string
	depth := 0
	start := 0
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '{':
			depth++
		case '}':
			depth--
		case ',':
			if depth == 0 {
				alts = append(alts, body[start:i])
				start = i + 1
			}
		}
	}
	alts = append(alts, body[start:])
	return alts
}

// matchingBrace returns the index of the '}' matching the '{' at openIdx,
// accounting for nested groups. Returns an error if none closes it.
func matchingBrace(pattern string, openIdx int) (int, error) {
	depth := 0
	for i := openIdx; i < len(pattern); i++ {
		switch pattern[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("unclosed brace group starting at %d", openIdx)
}
