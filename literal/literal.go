// Package literal decodes the lexeme text the scanner collects for
// string/char escapes and numeric literals, and implements the
// compile-time constant folding spec.md §4.P mandates for two-literal
// binary expressions.
package literal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Unquote decodes the escape sequences of a (non-interpolated) string or
// char literal lexeme. It accepts every escape the scanner accepts
// (\a \b \f \n \r \t \v \\ \" \' and \xHH), and also \0, which the
// scanner rejects.
func Unquote(lit string) (string, error) {
	var b strings.Builder
	r := []rune(lit)
	for i := 0; i < len(r); i++ {
		c := r[i]
		if c != '\\' {
			b.WriteRune(c)
			continue
		}
		i++
		if i >= len(r) {
			return "", fmt.Errorf("escape sequence not terminated")
		}
		switch r[i] {
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case '\'':
			b.WriteByte('\'')
		case '0':
			b.WriteByte(0)
		case 'x':
			if i+2 >= len(r) {
				return "", fmt.Errorf("escape sequence not terminated")
			}
			v, err := strconv.ParseUint(string(r[i+1:i+3]), 16, 8)
			if err != nil {
				return "", fmt.Errorf("illegal hex escape: %w", err)
			}
			b.WriteByte(byte(v))
			i += 2
		default:
			return "", fmt.Errorf("unknown escape sequence '\\%c'", r[i])
		}
	}
	return b.String(), nil
}

// Number is a decoded integer or floating literal, kept as an
// arbitrary-precision apd.Decimal so that folding chains of constant
// arithmetic never loses precision before a final cast to the
// declared primitive width.
type Number struct {
	Dec   apd.Decimal
	Float bool // true if the lexeme contained '.' or an exponent
}

// ParseNumber decodes a scanner-produced INT or FLOAT lexeme (decimal,
// or 0x, 0b, 0o prefixed) into a Number.
func ParseNumber(lit string) (Number, error) {
	clean := strings.ReplaceAll(lit, "_", "")
	var n Number
	switch {
	case strings.HasPrefix(clean, "0x") || strings.HasPrefix(clean, "0X"):
		v, err := strconv.ParseUint(clean[2:], 16, 64)
		if err != nil {
			return n, fmt.Errorf("illegal hexadecimal number %q: %w", lit, err)
		}
		n.Dec.SetUint64(v)
		return n, nil
	case strings.HasPrefix(clean, "0b") || strings.HasPrefix(clean, "0B"):
		v, err := strconv.ParseUint(clean[2:], 2, 64)
		if err != nil {
			return n, fmt.Errorf("illegal binary number %q: %w", lit, err)
		}
		n.Dec.SetUint64(v)
		return n, nil
	case strings.HasPrefix(clean, "0o") || strings.HasPrefix(clean, "0O"):
		v, err := strconv.ParseUint(clean[2:], 8, 64)
		if err != nil {
			return n, fmt.Errorf("illegal octal number %q: %w", lit, err)
		}
		n.Dec.SetUint64(v)
		return n, nil
	}
	if strings.ContainsAny(clean, ".eE") {
		n.Float = true
	}
	if _, _, err := n.Dec.SetString(clean); err != nil {
		return n, fmt.Errorf("illegal number %q: %w", lit, err)
	}
	return n, nil
}

// foldCtx is shared by every Fold call; apd requires an explicit
// precision/rounding context rather than a package-global default.
var foldCtx = apd.BaseContext.WithPrecision(40)

// FoldOp is the subset of arithmetic/string binary operators the parser
// can fold between two literals of the same primitive type.
type FoldOp int

const (
	FoldAdd FoldOp = iota
	FoldSub
	FoldMul
	FoldQuo
	FoldRem
)

// FoldNumbers folds two numeric literals per spec.md §4.P's literal
// folding rule, at parse time. Only the FoldOp operators are folded; the
// parser leaves every other operator between two literals, `**`
// included, as a BinaryOpExpr.
func FoldNumbers(a, b Number, op FoldOp) (Number, error) {
	var out Number
	out.Float = a.Float || b.Float
	var err error
	switch op {
	case FoldAdd:
		_, err = foldCtx.Add(&out.Dec, &a.Dec, &b.Dec)
	case FoldSub:
		_, err = foldCtx.Sub(&out.Dec, &a.Dec, &b.Dec)
	case FoldMul:
		_, err = foldCtx.Mul(&out.Dec, &a.Dec, &b.Dec)
	case FoldQuo:
		_, err = foldCtx.Quo(&out.Dec, &a.Dec, &b.Dec)
	case FoldRem:
		_, err = foldCtx.Rem(&out.Dec, &a.Dec, &b.Dec)
	default:
		return out, fmt.Errorf("literal: unsupported fold operator %v", op)
	}
	return out, err
}

// FoldStrings folds two string literals under '+' (concatenation), the
// only string-valued binary operator the parser folds.
func FoldStrings(a, b string) string { return a + b }

// String renders the decoded number back to Flint source form.
func (n Number) String() string { return n.Dec.String() }
