package compiler

import (
	"fmt"
	"strings"

	"github.com/dl/globwalk/internal/lexer"
)

// Options controls how a single pattern is compiled. It is the
// brace-expansion-time view of OptionsModel: one CompiledPattern is
// produced per brace alternative, each sharing these options.
type Options struct {
	CaseSensitive bool
	AllowDot      bool
	NoExt         bool
	NoGlobstar    bool
	MatchBase     bool
	Escape        bool
	ExtraSeparator rune
}

// ConfigurationError reports a pattern that is syntactically acceptable to
// lex but semantically rejected at compile time.
type ConfigurationError struct {
	Pattern string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("cannot compile pattern %q: %s", e.Pattern, e.Reason)
}

// Compile classifies and lowers a single already-brace-expanded pattern
// into a CompiledPattern, choosing the cheapest classification that can
// correctly evaluate it, in this exact priority order: Static,
// FastExtension, FastBasename, Segmented, Regex.
func Compile(pattern string, opts Options) (*CompiledPattern, error) {
	negated := false
	raw := pattern
	// A leading "!" negates the whole pattern, but "!(" is the extglob
	// negation-group operator and must reach the lexer untouched.
	if strings.HasPrefix(pattern, "!") && len(pattern) > 1 && pattern[1] != '(' {
		negated = true
		pattern = pattern[1:]
	}

	segments, absolute, err := lexer.Lex(pattern, lexer.Options{
		Escape:         opts.Escape,
		ExtraSeparator: opts.ExtraSeparator,
		NoExt:          opts.NoExt,
	})
	if err != nil {
		return nil, err
	}

	if opts.NoGlobstar {
		for _, seg := range segments {
			if seg.IsGlobstar() {
				return nil, &ConfigurationError{Pattern: raw, Reason: "globstar used while noglobstar is set"}
			}
		}
	}

	cp := &CompiledPattern{
		Raw:           raw,
		Negated:       negated,
		Absolute:      absolute,
		CaseSensitive: opts.CaseSensitive,
		AllowDot:      opts.AllowDot,
	}
	cp.Segments = toSegmentMatchers(segments)

	if isStatic(segments) {
		cp.Classification = Static
		cp.LiteralPath = literalPathOf(segments, absolute)
		return cp, nil
	}

	if ext, globstarPrefix, ok := asFastExtension(segments, opts.MatchBase); ok {
		cp.Classification = FastExtension
		cp.Extension = ext
		cp.ExtensionGlobstar = globstarPrefix
		return cp, nil
	}

	if opts.MatchBase && len(segments) == 1 && isRegular(segments[0].Tokens) {
		cp.Classification = FastBasename
		return cp, nil
	}
	if !opts.MatchBase && len(segments) == 1 && !absolute && isRegular(segments[0].Tokens) {
		cp.Classification = FastBasename
		return cp, nil
	}

	if !hasExtGroup(segments) {
		cp.Classification = Segmented
		return cp, nil
	}

	cp.Classification = Regex
	cp.TailStart = 0
	re, pc, err := lowerTail(segments, 0, opts.CaseSensitive)
	if err != nil {
		return nil, &ConfigurationError{Pattern: raw, Reason: err.Error()}
	}
	cp.TailRegex = re
	cp.TailPCRE = pc
	return cp, nil
}

func toSegmentMatchers(segments []lexer.Segment) []SegmentMatcher {
	out := make([]SegmentMatcher, len(segments))
	for i, seg := range segments {
		out[i] = SegmentMatcher{
			Tokens:     seg.Tokens,
			IsGlobstar: seg.IsGlobstar(),
			DotOK:      segmentStartsWithDot(seg),
		}
	}
	return out
}

func segmentStartsWithDot(seg lexer.Segment) bool {
	if len(seg.Tokens) == 0 {
		return false
	}
	first := seg.Tokens[0]
	return first.Kind == lexer.KindLiteral && strings.HasPrefix(first.Literal, ".")
}

// isStatic reports whether segments contain no magic atoms whatsoever:
// every token in every segment is a plain literal.
func isStatic(segments []lexer.Segment) bool {
	for _, seg := range segments {
		for _, tok := range seg.Tokens {
			if tok.Kind != lexer.KindLiteral {
				return false
			}
		}
	}
	return true
}

func literalPathOf(segments []lexer.Segment, absolute bool) string {
	parts := make([]string, len(segments))
	for i, seg := range segments {
		var b strings.Builder
		for _, tok := range seg.Tokens {
			b.WriteString(tok.Literal)
		}
		parts[i] = b.String()
	}
	path := strings.Join(parts, "/")
	if absolute {
		path = "/" + path
	}
	return path
}

// isRegular reports whether tokens contain only Literal, Star and
// QuestionMark atoms — the alphabet FastBasename and FastExtension are
// allowed to use.
func isRegular(tokens []lexer.Token) bool {
	for _, tok := range tokens {
		switch tok.Kind {
		case lexer.KindLiteral, lexer.KindStar, lexer.KindQuestionMark:
		default:
			return false
		}
	}
	return true
}

// asFastExtension recognizes "*.ext" (current-directory form) and
// "**/*.ext" (any-depth form): a single trailing segment of exactly
// [Star, Literal(".ext")], optionally preceded by nothing or by one
// leading "**" segment.
func asFastExtension(segments []lexer.Segment, matchBase bool) (ext string, globstarPrefix bool, ok bool) {
	var last lexer.Segment
	switch len(segments) {
	case 1:
		last = segments[0]
	case 2:
		if !segments[0].IsGlobstar() {
			return "", false, false
		}
		last = segments[1]
		globstarPrefix = true
	default:
		return "", false, false
	}
	if !matchBase && !globstarPrefix && len(segments) != 1 {
		return "", false, false
	}
	if len(last.Tokens) != 2 {
		return "", false, false
	}
	if last.Tokens[0].Kind != lexer.KindStar {
		return "", false, false
	}
	if last.Tokens[1].Kind != lexer.KindLiteral {
		return "", false, false
	}
	lit := last.Tokens[1].Literal
	if !strings.HasPrefix(lit, ".") || strings.ContainsAny(lit, "*?[") {
		return "", false, false
	}
	return lit, globstarPrefix, true
}

func hasExtGroup(segments []lexer.Segment) bool {
	for _, seg := range segments {
		for _, tok := range seg.Tokens {
			if tok.Kind == lexer.KindExtGroup {
				return true
			}
		}
	}
	return false
}

// IsMagicByte reports whether c is a character that, unescaped, changes
// glob interpretation. The public Escape operation uses it to decide which
// characters to prefix with a backslash.
func IsMagicByte(c byte) bool {
	switch c {
	case '*', '?', '[', ']', '{', '}', '(', ')', '!', '@', '+', '\\':
		return true
	default:
		return false
	}
}

// HasMagic reports whether pattern contains any unescaped magic atom.
// It short-circuits on the first one found and never builds a compiled
// matcher.
func HasMagic(pattern string, opts Options) bool {
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c == '\\' && opts.Escape {
			i++
			continue
		}
		if c == '*' || c == '?' || c == '[' {
			return true
		}
		if !opts.NoExt && (c == '(' ) && i > 0 {
			switch pattern[i-1] {
			case '?', '*', '+', '@', '!':
				return true
			}
		}
	}
	return false
}
