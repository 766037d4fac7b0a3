// Package formula implements the closed arithmetic language used for per-product
// pricing formulas: numbers, identifiers, + - * / %, unary minus and parentheses.
//
// There are no functions, assignments, strings or loops. A formula can only combine
// the numeric variables it is given, so evaluating one cannot run arbitrary logic.
package formula

import (
	"strconv"

	"cabinet-pricing/internal/errors"
)

// Kind classifies a token
type Kind int

const (
	KindNumber Kind = iota
	KindIdent
	KindOp
	KindNeg // unary minus, produced by the parser only
	KindLParen
	KindRParen
)

// String returns a short label used in error messages
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindIdent:
		return "identifier"
	case KindOp:
		return "operator"
	case KindNeg:
		return "unary minus"
	case KindLParen:
		return "("
	case KindRParen:
		return ")"
	default:
		return "unknown"
	}
}

// Token is one lexical unit of a formula
type Token struct {
	Kind  Kind
	Text  string
	Value float64 // set for KindNumber
	Pos   int     // byte offset in the source
}

const (
	stageTokenize = "tokenize"
	stageParse    = "parse"
	stageEvaluate = "evaluate"
)

// Tokenize lexes src. Any character outside the grammar fails the whole call;
// a partial token stream is never returned.
func Tokenize(src string) ([]Token, error) {
	var tokens []Token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case isDigit(c):
			start := i
			seenDot := false
			for i < len(src) {
				if isDigit(src[i]) {
					i++
					continue
				}
				// A second dot ends the number and is left for the next iteration.
				if src[i] == '.' && !seenDot {
					seenDot = true
					i++
					continue
				}
				break
			}
			text := src[start:i]
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, errors.Formula(stageTokenize, start, "invalid number %q", text)
			}
			tokens = append(tokens, Token{Kind: KindNumber, Text: text, Value: v, Pos: start})

		case isIdentStart(c):
			start := i
			for i < len(src) && isIdentPart(src[i]) {
				i++
			}
			tokens = append(tokens, Token{Kind: KindIdent, Text: src[start:i], Pos: start})

		case c == '+' || c == '-' || c == '*' || c == '/' || c == '%':
			tokens = append(tokens, Token{Kind: KindOp, Text: string(c), Pos: i})
			i++

		case c == '(':
			tokens = append(tokens, Token{Kind: KindLParen, Text: "(", Pos: i})
			i++

		case c == ')':
			tokens = append(tokens, Token{Kind: KindRParen, Text: ")", Pos: i})
			i++

		default:
			return nil, errors.Formula(stageTokenize, i, "unexpected character %q at %d", c, i)
		}
	}
	return tokens, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
