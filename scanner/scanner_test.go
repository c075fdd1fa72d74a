package scanner_test

import (
	"testing"

	qt "github.com/go-quicktest/qt"

	"github.com/flint-lang/flintc/errors"
	"github.com/flint-lang/flintc/scanner"
	"github.com/flint-lang/flintc/token"
)

func scanAll(t *testing.T, src string) ([]token.Token, []string) {
	t.Helper()
	f := token.NewFile("test.flint", []byte(src))
	var errs errors.List
	var s scanner.Scanner
	s.Init(f, []byte(src), scanner.ErrHandler(&errs))

	var toks []token.Token
	var lits []string
	for {
		_, tok, lit := s.Scan()
		toks = append(toks, tok)
		lits = append(lits, lit)
		if tok == token.EOF {
			break
		}
	}
	qt.Assert(t, qt.HasLen(errs, 0))
	return toks, lits
}

func TestScanKeywordsAndIdents(t *testing.T) {
	toks, lits := scanAll(t, "def main")
	qt.Assert(t, qt.Equals(toks[0], token.DEF))
	qt.Assert(t, qt.Equals(toks[1], token.IDENT))
	qt.Assert(t, qt.Equals(lits[1], "main"))
}

func TestScanNumbers(t *testing.T) {
	toks, lits := scanAll(t, "42 0x1F 0b101 3.14")
	qt.Assert(t, qt.Equals(toks[0], token.INT))
	qt.Assert(t, qt.Equals(lits[0], "42"))
	qt.Assert(t, qt.Equals(toks[1], token.INT))
	qt.Assert(t, qt.Equals(lits[1], "0x1F"))
	qt.Assert(t, qt.Equals(toks[2], token.INT))
	qt.Assert(t, qt.Equals(lits[2], "0b101"))
	qt.Assert(t, qt.Equals(toks[3], token.FLOAT))
}

func TestScanOperators(t *testing.T) {
	toks, _ := scanAll(t, "== != <= >= .. ?. ?! << >> && ||")
	want := []token.Token{
		token.EQL, token.NEQ, token.LEQ, token.GEQ, token.RANGE,
		token.OPTCHAIN, token.OPTUNWRAP, token.SHL, token.SHR, token.LAND, token.LOR,
		token.EOF,
	}
	qt.Assert(t, qt.DeepEquals(toks, want))
}

func TestScanEOLOnNewline(t *testing.T) {
	toks, _ := scanAll(t, "a\nb")
	qt.Assert(t, qt.DeepEquals(toks, []token.Token{token.IDENT, token.EOL, token.IDENT, token.EOF}))
}

func TestScanStringInterpolationSplit(t *testing.T) {
	toks, _ := scanAll(t, `"hi \(x)"`)
	// STRPART up to the '\(' split, then the embedded expression tokens,
	// then the closing ')' is absorbed and the string scan resumes
	// directly as the next STR_PART/STRING segment (no RPAREN token).
	qt.Assert(t, qt.Equals(toks[0], token.STRPART))
	qt.Assert(t, qt.Equals(toks[1], token.IDENT))
	qt.Assert(t, qt.Equals(toks[2], token.STRING))
	qt.Assert(t, qt.Equals(toks[3], token.EOF))
}

func TestUnterminatedStringIsLexError(t *testing.T) {
	f := token.NewFile("test.flint", []byte(`"abc`))
	var errs errors.List
	var s scanner.Scanner
	s.Init(f, []byte(`"abc`), scanner.ErrHandler(&errs))
	for {
		_, tok, _ := s.Scan()
		if tok == token.EOF {
			break
		}
	}
	qt.Assert(t, qt.Not(qt.HasLen(errs, 0)))
}
