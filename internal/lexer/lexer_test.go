package lexer

import "testing"

func opts() Options { return Options{Escape: true} }

func TestLex_Literal(t *testing.T) {
	segs, abs, err := Lex("a/b/c.go", opts())
	if err != nil {
		t.Fatal(err)
	}
	if abs {
		t.Error("expected relative path")
	}
	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3", len(segs))
	}
	for i, want := range []string{"a", "b", "c.go"} {
		if len(segs[i].Tokens) != 1 || segs[i].Tokens[0].Literal != want {
			t.Errorf("segment %d = %+v, want literal %q", i, segs[i], want)
		}
	}
}

func TestLex_Absolute(t *testing.T) {
	_, abs, err := Lex("/a/b", opts())
	if err != nil {
		t.Fatal(err)
	}
	if !abs {
		t.Error("expected absolute path")
	}
}

func TestLex_Globstar(t *testing.T) {
	segs, _, err := Lex("a/**/b", opts())
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 3 || !segs[1].IsGlobstar() {
		t.Fatalf("expected middle segment to be globstar, got %+v", segs)
	}
}

func TestLex_StarAdjacentNotGlobstar(t *testing.T) {
	segs, _, err := Lex("a**b/c", opts())
	if err != nil {
		t.Fatal(err)
	}
	if segs[0].IsGlobstar() {
		t.Fatal("a**b should not lex as a globstar segment")
	}
}

func TestLex_QuestionAndStar(t *testing.T) {
	segs, _, err := Lex("*.go", opts())
	if err != nil {
		t.Fatal(err)
	}
	toks := segs[0].Tokens
	if len(toks) != 2 || toks[0].Kind != KindStar || toks[1].Literal != ".go" {
		t.Fatalf("got %+v", toks)
	}
}

func TestLex_CharClass(t *testing.T) {
	segs, _, err := Lex("[a-z0-9].txt", opts())
	if err != nil {
		t.Fatal(err)
	}
	tok := segs[0].Tokens[0]
	if tok.Kind != KindCharClass || len(tok.Ranges) != 2 {
		t.Fatalf("got %+v", tok)
	}
}

func TestLex_CharClassNegated(t *testing.T) {
	segs, _, err := Lex("[!abc]", opts())
	if err != nil {
		t.Fatal(err)
	}
	tok := segs[0].Tokens[0]
	if !tok.Negated {
		t.Fatal("expected negated class")
	}
}

func TestLex_CharClassLeadingBracket(t *testing.T) {
	// []abc] — the first ']' is a literal member, not the closer.
	segs, _, err := Lex("[]abc]", opts())
	if err != nil {
		t.Fatal(err)
	}
	tok := segs[0].Tokens[0]
	if tok.Kind != KindCharClass {
		t.Fatalf("expected a char class, got %+v", tok)
	}
}

func TestLex_UnclosedCharClassIsLiteral(t *testing.T) {
	segs, _, err := Lex("[abc", opts())
	if err != nil {
		t.Fatal(err)
	}
	tok := segs[0].Tokens[0]
	if tok.Kind != KindLiteral || tok.Literal != "[abc" {
		t.Fatalf("got %+v, want literal [abc", tok)
	}
}

func TestLex_PosixClass(t *testing.T) {
	segs, _, err := Lex("[[:digit:]]", opts())
	if err != nil {
		t.Fatal(err)
	}
	tok := segs[0].Tokens[0]
	if len(tok.PosixClass) != 1 || tok.PosixClass[0] != "digit" {
		t.Fatalf("got %+v", tok)
	}
}

func TestLex_ExtGroup(t *testing.T) {
	segs, _, err := Lex("!(a|b)c", Options{Escape: true})
	if err != nil {
		t.Fatal(err)
	}
	toks := segs[0].Tokens
	if toks[0].Kind != KindExtGroup || toks[0].ExtOp != ExtNegated {
		t.Fatalf("got %+v", toks[0])
	}
	if len(toks[0].ExtAlternatives) != 2 {
		t.Fatalf("got %d alternatives, want 2", len(toks[0].ExtAlternatives))
	}
}

func TestLex_NoExtTreatsGroupAsLiteral(t *testing.T) {
	segs, _, err := Lex("!(a|b)", Options{Escape: true, NoExt: true})
	if err != nil {
		t.Fatal(err)
	}
	tok := segs[0].Tokens[0]
	if tok.Kind != KindLiteral {
		t.Fatalf("expected literal text with NoExt set, got %+v", tok)
	}
}

func TestLex_EscapedMagicChar(t *testing.T) {
	segs, _, err := Lex(`a\*b`, opts())
	if err != nil {
		t.Fatal(err)
	}
	tok := segs[0].Tokens[0]
	if tok.Kind != KindLiteral || tok.Literal != "a*b" {
		t.Fatalf("got %+v", tok)
	}
}

func TestLex_EscapeDisabled(t *testing.T) {
	segs, _, err := Lex(`a\*b`, Options{Escape: false})
	if err != nil {
		t.Fatal(err)
	}
	toks := segs[0].Tokens
	if len(toks) != 3 || toks[1].Kind != KindStar {
		t.Fatalf("expected backslash to be literal and * to stay magic, got %+v", toks)
	}
}
