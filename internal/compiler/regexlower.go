package compiler

import (
	"regexp"
	"strings"

	"go.elara.ws/pcre"

	"github.com/dl/globwalk/internal/lexer"
)

// hasNegatedExtGroup reports whether any token in segments uses the !(...)
// extglob form, which needs negative lookaround that RE2 cannot express.
func hasNegatedExtGroup(segments []lexer.Segment) bool {
	for _, seg := range segments {
		for _, tok := range seg.Tokens {
			if tok.Kind == lexer.KindExtGroup && tok.ExtOp == lexer.ExtNegated {
				return true
			}
			for _, alt := range tok.ExtAlternatives {
				if strings.Contains(alt, "!(") {
					return true
				}
			}
		}
	}
	return false
}

// lowerTail compiles segments[from:] into a single expression matching the
// remaining relative path (segments still joined by '/'). It returns a
// RE2 *regexp.Regexp when possible, falling back to PCRE only when a
// negated extglob group forces lookaround RE2 cannot express.
func lowerTail(segments []lexer.Segment, from int, caseSensitive bool) (re *regexp.Regexp, pc *pcre.Regexp, err error) {
	tail := segments[from:]
	pattern := lowerSegmentsToPattern(tail, caseSensitive)

	if hasNegatedExtGroup(tail) {
		p, err := pcre.Compile(pattern)
		if err != nil {
			return nil, nil, err
		}
		return nil, p, nil
	}

	re, err = regexp.Compile(pattern)
	if err != nil {
		return nil, nil, err
	}
	return re, nil, nil
}

func lowerSegmentsToPattern(segments []lexer.Segment, caseSensitive bool) string {
	var b strings.Builder
	b.WriteString("^")
	if !caseSensitive {
		b.WriteString("(?i)")
	}
	for i, seg := range segments {
		if i > 0 {
			b.WriteString("/")
		}
		if seg.IsGlobstar() {
			// A "**" segment spans zero or more whole path components.
			b.WriteString(`(?:[^/]+(?:/[^/]+)*)?`)
			continue
		}
		b.WriteString(lowerSegmentTokens(seg.Tokens))
	}
	b.WriteString("$")
	return b.String()
}

func lowerSegmentTokens(tokens []lexer.Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		switch tok.Kind {
		case lexer.KindLiteral:
			b.WriteString(regexp.QuoteMeta(tok.Literal))
		case lexer.KindStar:
			b.WriteString(`[^/]*`)
		case lexer.KindQuestionMark:
			b.WriteString(`[^/]`)
		case lexer.KindCharClass:
			b.WriteString(lowerCharClass(tok))
		case lexer.KindExtGroup:
			b.WriteString(lowerExtGroup(tok))
		}
	}
	return b.String()
}

func lowerCharClass(tok lexer.Token) string {
	var b strings.Builder
	b.WriteString("[")
	if tok.Negated {
		b.WriteString("^")
	}
	for _, r := range tok.Ranges {
		if r.Lo == r.Hi {
			b.WriteString(regexp.QuoteMeta(string(r.Lo)))
		} else {
			b.WriteString(regexp.QuoteMeta(string(r.Lo)) + "-" + regexp.QuoteMeta(string(r.Hi)))
		}
	}
	for _, class := range tok.PosixClass {
		b.WriteString("[:" + class + ":]")
	}
	b.WriteString("]")
	return b.String()
}

// lowerExtGroup lowers a single extglob group to its regex equivalent.
// The negated form relies on PCRE's negative lookahead and is only ever
// reached via the PCRE compilation path in lowerTail.
func lowerExtGroup(tok lexer.Token) string {
	alt := lowerAlternatives(tok.ExtAlternatives)
	switch tok.ExtOp {
	case lexer.ExtAtLeastZero:
		return "(?:" + alt + ")?"
	case lexer.ExtAny:
		return "(?:" + alt + ")*"
	case lexer.ExtAtLeastOne:
		return "(?:" + alt + ")+"
	case lexer.ExtExactlyOne:
		return "(?:" + alt + ")"
	case lexer.ExtNegated:
		return `(?:(?!(?:` + alt + `)[^/]*$)[^/])*`
	default:
		return "(?:" + alt + ")"
	}
}

func lowerAlternatives(alts []string) string {
	parts := make([]string, len(alts))
	for i, a := range alts {
		segs, _, err := lexer.Lex(a, lexer.Options{Escape: true})
		if err != nil || len(segs) != 1 {
			parts[i] = regexp.QuoteMeta(a)
			continue
		}
		parts[i] = lowerSegmentTokens(segs[0].Tokens)
	}
	return strings.Join(parts, "|")
}
