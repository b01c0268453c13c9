package compiler

import (
	"unicode"

	"github.com/dl/globwalk/internal/lexer"
)

// matchTokens matches a single path segment's tokens against name using
// hand-rolled backtracking rather than a compiled regular expression.
// Segmented classification exists specifically to avoid the cost of a
// regex engine for the common case of literals, '*', '?' and character
// classes; ExtGroup tokens are never passed here — patterns containing
// them classify as Regex instead (see compiler.go).
func matchTokens(tokens []lexer.Token, name string, caseSensitive bool) bool {
	return matchFrom(tokens, 0, []rune(name), 0, caseSensitive)
}

func matchFrom(tokens []lexer.Token, ti int, name []rune, ni int, caseSensitive bool) bool {
	for ti < len(tokens) {
		tok := tokens[ti]
		switch tok.Kind {
		case lexer.KindLiteral:
			lit := []rune(tok.Literal)
			if !runesEqualFold(name, ni, lit, caseSensitive) {
				return false
			}
			ni += len(lit)
			ti++

		case lexer.KindQuestionMark:
			if ni >= len(name) {
				return false
			}
			ni++
			ti++

		case lexer.KindStar:
			// Try every possible consumption length, shortest first, and
			// recurse on the remainder of the token stream.
			for k := ni; k <= len(name); k++ {
				if matchFrom(tokens, ti+1, name, k, caseSensitive) {
					return true
				}
			}
			return false

		case lexer.KindCharClass:
			if ni >= len(name) {
				return false
			}
			if !matchCharClass(tok, name[ni], caseSensitive) {
				return false
			}
			ni++
			ti++

		default:
			// ExtGroup and anything else unrecognized here is a compiler
			// invariant violation: such tokens must never reach a
			// Segmented matcher.
			return false
		}
	}
	return ni == len(name)
}

func runesEqualFold(name []rune, ni int, lit []rune, caseSensitive bool) bool {
	if ni+len(lit) > len(name) {
		return false
	}
	for i, r := range lit {
		c := name[ni+i]
		if caseSensitive {
			if c != r {
				return false
			}
			continue
		}
		if !runeEqualFold(c, r) {
			return false
		}
	}
	return true
}

func runeEqualFold(a, b rune) bool {
	if a == b {
		return true
	}
	if a < unicode.MaxASCII && b < unicode.MaxASCII {
		return unicode.ToLower(a) == unicode.ToLower(b)
	}
	return norm1(a) == norm1(b)
}

// norm1 lowercases a single non-ASCII rune for comparison. runeEqualFold
// uses it for case-insensitive literal comparisons in the segment matcher;
// no NFC normalization is applied on this path.
func norm1(r rune) rune {
	return unicode.ToLower(r)
}

func matchCharClass(tok lexer.Token, c rune, caseSensitive bool) bool {
	matched := inCharClass(tok, c)
	if !matched && !caseSensitive {
		if unicode.IsUpper(c) {
			matched = inCharClass(tok, unicode.ToLower(c))
		} else if unicode.IsLower(c) {
			matched = inCharClass(tok, unicode.ToUpper(c))
		}
	}
	if tok.Negated {
		return !matched
	}
	return matched
}

func inCharClass(tok lexer.Token, c rune) bool {
	for _, r := range tok.Ranges {
		if c >= r.Lo && c <= r.Hi {
			return true
		}
	}
	for _, class := range tok.PosixClass {
		if posixClassMatch(class, c) {
			return true
		}
	}
	return false
}

func posixClassMatch(class string, c rune) bool {
	switch class {
	case "alpha":
		return unicode.IsLetter(c)
	case "digit":
		return unicode.IsDigit(c)
	case "alnum":
		return unicode.IsLetter(c) || unicode.IsDigit(c)
	case "upper":
		return unicode.IsUpper(c)
	case "lower":
		return unicode.IsLower(c)
	case "space":
		return unicode.IsSpace(c)
	case "punct":
		return unicode.IsPunct(c) || unicode.IsSymbol(c)
	case "cntrl":
		return unicode.IsControl(c)
	case "xdigit":
		return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	case "blank":
		return c == ' ' || c == '\t'
	case "print":
		return unicode.IsPrint(c)
	case "graph":
		return unicode.IsGraphic(c) && !unicode.IsSpace(c)
	default:
		return false
	}
}
