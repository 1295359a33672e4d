package lexer

import "testing"

func TestTokenizeBasics(t *testing.T) {
	toks := Tokenize([]byte(`fn x => x + 1`), "test.noo")
	want := []TokenType{FN, IDENT, ARROW, IDENT, PLUS, NUMBER, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Type, w)
		}
	}
}

func TestTokenizeAccessorAndOptional(t *testing.T) {
	toks := Tokenize([]byte(`@name? |? |> <|`), "t.noo")
	if toks[0].Type != ACCESSOR || toks[0].Lit != "name" {
		t.Fatalf("expected accessor 'name', got %v", toks[0])
	}
	if toks[1].Type != QUESTION {
		t.Fatalf("expected QUESTION after accessor, got %v", toks[1])
	}
	if toks[2].Type != SAFEBIND {
		t.Fatalf("expected SAFEBIND, got %v", toks[2])
	}
	if toks[3].Type != PIPEFWD {
		t.Fatalf("expected PIPEFWD, got %v", toks[3])
	}
	if toks[4].Type != PIPEBACK {
		t.Fatalf("expected PIPEBACK, got %v", toks[4])
	}
}

func TestNormalizeStripsBOM(t *testing.T) {
	src := append([]byte{0xEF, 0xBB, 0xBF}, []byte("1")...)
	toks := Tokenize(src, "t.noo")
	if toks[0].Type != NUMBER || toks[0].Lit != "1" {
		t.Fatalf("expected BOM stripped and number lexed, got %v", toks)
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	toks := Tokenize([]byte(`"a\nb"`), "t.noo")
	if toks[0].Type != STRING || toks[0].Lit != "a\nb" {
		t.Fatalf("got %v", toks[0])
	}
}
