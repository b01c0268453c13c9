package compiler

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// equalFold reports whether a and b are equal under the case-folding policy
// in effect: a locale-independent ASCII casefold, with non-ASCII runes
// compared code-point-for-code-point after NFC normalization. No
// locale-specific (e.g. Turkish dotless-i) case folding is ever applied.
func equalFold(a, b string) bool {
	if isASCII(a) && isASCII(b) {
		return strings.EqualFold(a, b)
	}
	return norm.NFC.String(foldASCIIPrefix(a)) == norm.NFC.String(foldASCIIPrefix(b))
}

// hasPrefixFold reports whether s starts with prefix under the same folding
// policy as equalFold.
func hasPrefixFold(s, prefix string) bool {
	if len(prefix) > len(s) {
		return false
	}
	if isASCII(prefix) {
		return equalFold(s[:len(prefix)], prefix)
	}
	ns, np := norm.NFC.String(s), norm.NFC.String(prefix)
	return strings.HasPrefix(ns, np)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= unicode.MaxASCII {
			return false
		}
	}
	return true
}

// foldASCIIPrefix lowercases only the ASCII runs of s, leaving non-ASCII
// runes untouched so NFC normalization downstream sees the original
// code points rather than a Unicode case-fold, which would be
// locale-sensitive.
func foldASCIIPrefix(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < unicode.MaxASCII {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
