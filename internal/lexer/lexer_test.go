package lexer

import (
	"testing"

	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/token"
)

func collect(src string) []token.Token {
	l := New(src)
	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EndOfText {
			break
		}
	}
	return toks
}

func TestIdentifiersAndKeywords(t *testing.T) {
	toks := collect("PRINT X1$")
	if toks[0].Kind != token.Keyword || toks[0].Tag != token.KeywordPRINT {
		t.Fatalf("expected PRINT keyword, got %+v", toks[0])
	}
	if toks[1].Kind != token.Divider {
		t.Fatalf("expected divider, got %+v", toks[1])
	}
	ident := toks[2]
	if ident.Kind != token.Identifier || ident.Str != "X1$" || ident.VType != token.TypeString {
		t.Fatalf("expected string identifier X1$, got %+v", ident)
	}
}

func TestIdentifierSuffixes(t *testing.T) {
	cases := []struct {
		src   string
		text  string
		vtype token.ValueType
	}{
		{"I%", "I%", token.TypeInteger},
		{"X!", "X!", token.TypeSingle},
		{"A$", "A$", token.TypeString},
		{"C", "C", token.TypeSingle},
	}
	for _, c := range cases {
		toks := collect(c.src)
		ident := toks[0]
		if ident.Kind != token.Identifier || ident.Str != c.text || ident.VType != c.vtype {
			t.Fatalf("%s: expected identifier %s vtype %v, got %+v", c.src, c.text, c.vtype, ident)
		}
	}
}

func TestNumberSuffixes(t *testing.T) {
	cases := []struct {
		src   string
		vtype token.ValueType
		value float64
	}{
		{"42", token.TypeSingle, 42},
		{"42%", token.TypeInteger, 42},
		{"3.5", token.TypeSingle, 3.5},
		{"3!", token.TypeSingle, 3},
		{"1.5E2", token.TypeSingle, 150},
	}
	for _, c := range cases {
		toks := collect(c.src)
		if toks[0].Kind != token.Number {
			t.Fatalf("%s: expected number token, got %+v", c.src, toks[0])
		}
		if toks[0].VType != c.vtype {
			t.Fatalf("%s: expected vtype %v, got %v", c.src, c.vtype, toks[0].VType)
		}
		if toks[0].Value != c.value {
			t.Fatalf("%s: expected value %v, got %v", c.src, c.value, toks[0].Value)
		}
	}
}

func TestRadixLiterals(t *testing.T) {
	toks := collect("&HFF")
	if toks[0].Kind != token.Number || toks[0].Value != 255 {
		t.Fatalf("expected &HFF == 255, got %+v", toks[0])
	}
}

func TestStringMissingCloseQuote(t *testing.T) {
	toks := collect("\"HI")
	if toks[0].Kind != token.String || toks[0].Str != "HI" {
		t.Fatalf("expected tolerant string literal HI, got %+v", toks[0])
	}
}

func TestOperators(t *testing.T) {
	toks := collect("<> <= >= <")
	var ops []string
	for _, tok := range toks {
		if tok.Kind == token.Operation {
			ops = append(ops, tok.Text)
		}
	}
	want := []string{"<>", "<=", ">=", "<"}
	if len(ops) != len(want) {
		t.Fatalf("expected %v, got %v", want, ops)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ops)
		}
	}
}

func TestTokenizationIsTotal(t *testing.T) {
	for _, src := range []string{"", "\n", "10 PRINT \"HI\"\n", "???"} {
		toks := collect(src)
		if len(toks) == 0 || toks[len(toks)-1].Kind != token.EndOfText {
			t.Fatalf("%q: did not terminate with end-of-text, got %+v", src, toks)
		}
	}
}
