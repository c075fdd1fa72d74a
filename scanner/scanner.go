// Package scanner implements the Lexer (component L): source bytes in,
// a finite token stream with positions out, adapted from
// cuelang.org/go/cue/scanner's state-machine shape (Init/next/Scan) and
// retargeted at Flint's token set, newline-terminated logical lines (an
// EOL token per line; no INDENT token is produced), and interpolated
// strings.
package scanner

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/flint-lang/flintc/errors"
	"github.com/flint-lang/flintc/token"
)

// Scanner tokenizes one file's source text. It must be initialized via
// Init before use.
type Scanner struct {
	file *token.File
	src  []byte
	err  func(pos token.Pos, msg string)

	ch       rune
	offset   int
	rdOffset int

	atLineStart bool // true immediately after a newline, before any non-blank char
	parenDepth  int  // tracks () nesting so '\n' inside a group doesn't end a line early
	interpStack []int // parenDepth at which each open \( interpolation was entered

	ErrorCount int
}

const bom = 0xFEFF

// Init prepares s to scan src, whose size must match file.Size().
func (s *Scanner) Init(file *token.File, src []byte, err func(token.Pos, string)) {
	if file.Size() != len(src) {
		panic(fmt.Sprintf("scanner: file size (%d) does not match src len (%d)", file.Size(), len(src)))
	}
	s.file = file
	s.src = src
	s.err = err
	s.ch = ' '
	s.offset = 0
	s.rdOffset = 0
	s.atLineStart = true
	s.next()
}

func (s *Scanner) next() {
	if s.rdOffset < len(s.src) {
		s.offset = s.rdOffset
		r, w := rune(s.src[s.rdOffset]), 1
		switch {
		case r == 0:
			s.error(s.offset, "illegal character NUL")
		case r >= utf8.RuneSelf:
			r, w = utf8.DecodeRune(s.src[s.rdOffset:])
			if r == utf8.RuneError && w == 1 {
				s.error(s.offset, "illegal UTF-8 encoding")
			} else if r == bom && s.offset > 0 {
				s.error(s.offset, "illegal byte order mark")
			}
		}
		s.rdOffset += w
		s.ch = r
	} else {
		s.offset = len(s.src)
		s.ch = -1
	}
}

func (s *Scanner) error(offset int, msg string) {
	s.ErrorCount++
	if s.err != nil {
		s.err(s.file.Pos(offset), msg)
	}
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch >= utf8.RuneSelf && unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9' || ch >= utf8.RuneSelf && unicode.IsDigit(ch)
}

func digitVal(ch rune) int {
	switch {
	case '0' <= ch && ch <= '9':
		return int(ch - '0')
	case ch == '_':
		return -1
	case 'a' <= ch && ch <= 'f':
		return int(ch - 'a' + 10)
	case 'A' <= ch && ch <= 'F':
		return int(ch - 'A' + 10)
	}
	return 16
}

// normalizeIdent applies NFC normalization so two differently-composed
// Unicode spellings of "the same" identifier compare equal downstream
// (spec.md §6: "Only UTF-8 text is accepted").
func normalizeIdent(s string) string { return norm.NFC.String(s) }

func (s *Scanner) scanIdentifier() string {
	offs := s.offset
	for isLetter(s.ch) || isDigit(s.ch) {
		s.next()
	}
	return normalizeIdent(string(s.src[offs:s.offset]))
}

func (s *Scanner) scanMantissa(base int) {
	for digitVal(s.ch) < base || s.ch == '_' {
		if s.ch < 0 {
			break
		}
		s.next()
	}
}

func (s *Scanner) scanNumber() (token.Token, string) {
	offs := s.offset
	tok := token.INT
	if s.ch == '0' {
		s.next()
		switch s.ch {
		case 'x', 'X':
			s.next()
			s.scanMantissa(16)
		case 'b', 'B':
			s.next()
			s.scanMantissa(2)
		case 'o', 'O':
			s.next()
			s.scanMantissa(8)
		default:
			s.scanMantissa(10)
		}
	} else {
		s.scanMantissa(10)
	}
	if s.ch == '.' {
		tok = token.FLOAT
		s.next()
		s.scanMantissa(10)
	}
	if s.ch == 'e' || s.ch == 'E' {
		tok = token.FLOAT
		s.next()
		if s.ch == '+' || s.ch == '-' {
			s.next()
		}
		s.scanMantissa(10)
	}
	return tok, string(s.src[offs:s.offset])
}

func (s *Scanner) scanEscape(quote rune) bool {
	offs := s.offset
	var n int
	var base, max uint32
	switch s.ch {
	case 'a', 'b', 'f', 'n', 'r', 't', 'v', '\\', quote:
		s.next()
		return true
	case 'x':
		s.next()
		n, base, max = 2, 16, 255
	default:
		s.error(offs, "unknown escape sequence")
		return false
	}
	var x uint32
	for ; n > 0; n-- {
		d := uint32(digitVal(s.ch))
		if d >= base {
			s.error(s.offset, "illegal character in escape sequence")
			return false
		}
		x = x*base + d
		s.next()
	}
	return x <= max
}

// scanString scans a "..." literal, splitting on \( into STRPART/…/STRING
// segments in the teacher's own style (cue's scanString/scanInterpolation
// split). The opening quote has already been consumed by Scan's dispatch.
func (s *Scanner) scanString() (token.Token, string) {
	offs := s.offset - 1 // opening quote already consumed
	return s.scanStringBody(offs)
}

// resumeString scans string content following a ')' that closed an
// interpolated expression, with no leading quote to skip — the text
// picks up exactly where the \( split left off.
func (s *Scanner) resumeString() (token.Token, string) {
	return s.scanStringBody(s.offset)
}

func (s *Scanner) scanStringBody(offs int) (token.Token, string) {
	tok := token.STRING
	for {
		ch := s.ch
		if ch == '\n' || ch < 0 {
			s.error(offs, "string literal not terminated")
			break
		}
		s.next()
		if ch == '"' {
			break
		}
		if ch == '\\' {
			if s.ch == '(' {
				s.next() // consume '('
				s.interpStack = append(s.interpStack, s.parenDepth)
				s.parenDepth++
				tok = token.STRPART
				break
			}
			s.scanEscape('"')
		}
	}
	return tok, string(s.src[offs:s.offset])
}

func (s *Scanner) skipWhitespace() (newline bool) {
	for s.ch == ' ' || s.ch == '\t' || s.ch == '\r' || s.ch == '\n' {
		if s.ch == '\n' && s.parenDepth == 0 {
			newline = true
		}
		s.next()
	}
	return newline
}

func (s *Scanner) scanComment() {
	for s.ch != '\n' && s.ch >= 0 {
		s.next()
	}
}

func (s *Scanner) switch2(tok0, tok1 token.Token, ch1 rune) token.Token {
	if s.ch == ch1 {
		s.next()
		return tok1
	}
	return tok0
}

// Scan returns the position, token kind, and literal text of the next
// token. The source end is reported once as token.EOF.
func (s *Scanner) Scan() (pos token.Pos, tok token.Token, lit string) {
	newline := s.skipWhitespace()
	pos = s.file.Pos(s.offset)

	if newline && s.parenDepth == 0 {
		return pos, token.EOL, "\n"
	}

	ch := s.ch
	switch {
	case isLetter(ch):
		lit = s.scanIdentifier()
		tok = token.Lookup(lit)
		return pos, tok, lit
	case isDigit(ch):
		tok, lit = s.scanNumber()
		return pos, tok, lit
	}

	s.next()
	switch ch {
	case -1:
		return pos, token.EOF, ""
	case '"':
		tok, lit = s.scanString()
		return pos, tok, lit
	case ')':
		if n := len(s.interpStack); n > 0 && s.parenDepth-1 == s.interpStack[n-1] {
			s.parenDepth--
			s.interpStack = s.interpStack[:n-1]
			tok, lit = s.resumeString()
			return pos, tok, lit
		}
		if s.parenDepth > 0 {
			s.parenDepth--
		}
		return pos, token.RPAREN, ")"
	case '\'':
		offs := s.offset - 1
		if s.ch == '\\' {
			s.next()
			s.scanEscape('\'')
		} else {
			s.next()
		}
		if s.ch != '\'' {
			s.error(offs, "char literal not terminated")
		} else {
			s.next()
		}
		return pos, token.CHAR, string(s.src[offs:s.offset])
	case '/':
		if s.ch == '/' {
			s.scanComment()
			return s.Scan()
		}
		return pos, token.QUO, "/"
	case ';':
		return pos, token.SEMICOLON, ";"
	case ':':
		return pos, s.switch2(token.COLON, token.DEFINE, '='), s.since(pos)
	case '.':
		if s.ch == '.' {
			s.next()
			return pos, token.RANGE, ".."
		}
		return pos, token.PERIOD, "."
	case ',':
		return pos, token.COMMA, ","
	case '(':
		s.parenDepth++
		return pos, token.LPAREN, "("
	case '[':
		return pos, token.LBRACK, "["
	case ']':
		return pos, token.RBRACK, "]"
	case '{':
		return pos, token.LBRACE, "{"
	case '}':
		return pos, token.RBRACE, "}"
	case '@':
		return pos, token.AT, "@"
	case '+':
		return pos, token.ADD, "+"
	case '-':
		if s.ch == '>' {
			s.next()
			return pos, token.ARROW, "->"
		}
		return pos, token.SUB, "-"
	case '*':
		if s.ch == '*' {
			s.next()
			return pos, token.POW, "**"
		}
		return pos, token.MUL, "*"
	case '%':
		return pos, token.REM, "%"
	case '=':
		return pos, s.switch2(token.ASSIGN, token.EQL, '='), s.since(pos)
	case '!':
		if s.ch == '=' {
			s.next()
			return pos, token.NEQ, "!="
		}
		return pos, token.NOT, "!"
	case '<':
		if s.ch == '<' {
			s.next()
			return pos, token.SHL, "<<"
		}
		return pos, s.switch2(token.LSS, token.LEQ, '='), s.since(pos)
	case '>':
		if s.ch == '>' {
			s.next()
			return pos, token.SHR, ">>"
		}
		return pos, s.switch2(token.GTR, token.GEQ, '='), s.since(pos)
	case '&':
		if s.ch == '&' {
			s.next()
			return pos, token.LAND, "&&"
		}
		return pos, token.AND, "&"
	case '|':
		if s.ch == '|' {
			s.next()
			return pos, token.LOR, "||"
		}
		return pos, token.OR, "|"
	case '^':
		return pos, token.XOR, "^"
	case '?':
		if s.ch == '.' {
			s.next()
			return pos, token.OPTCHAIN, "?."
		}
		if s.ch == '!' {
			s.next()
			return pos, token.OPTUNWRAP, "?!"
		}
		return pos, token.QUESTION, "?"
	}
	s.error(s.offset-1, fmt.Sprintf("illegal character %#U", ch))
	return pos, token.ILLEGAL, string(ch)
}

func (s *Scanner) since(pos token.Pos) string {
	return string(s.src[pos.Offset():s.offset])
}

// ErrHandler adapts a scan error into an errors.Error, used by Driver/
// Parser wiring (errors.Newf with Kind Lex, spec.md §7).
func ErrHandler(errs *errors.List) func(token.Pos, string) {
	return func(pos token.Pos, msg string) {
		*errs = append(*errs, errors.Newf(errors.Lex, pos, "%s", msg))
	}
}
