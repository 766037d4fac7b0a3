package formula

import "cabinet-pricing/internal/errors"

// precedence returns the binding strength of an operator token; higher binds tighter.
func precedence(t Token) int {
	if t.Kind == KindNeg {
		return 3
	}
	switch t.Text {
	case "*", "/", "%":
		return 2
	case "+", "-":
		return 1
	}
	return 0
}

func isOperator(t Token) bool {
	return t.Kind == KindOp || t.Kind == KindNeg
}

// ToPostfix reorders an infix token stream into postfix using the shunting-yard
// algorithm. A "-" is unary when it opens the formula or follows an operator or "(".
func ToPostfix(tokens []Token) ([]Token, error) {
	output := make([]Token, 0, len(tokens))
	stack := make([]Token, 0, len(tokens))

	for i, tok := range tokens {
		switch tok.Kind {
		case KindNumber, KindIdent:
			output = append(output, tok)

		case KindOp:
			if tok.Text == "-" && startsOperand(tokens, i) {
				// Prefix and right-associative: nothing on the stack can bind tighter yet.
				stack = append(stack, Token{Kind: KindNeg, Text: "-", Pos: tok.Pos})
				continue
			}
			p := precedence(tok)
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if !isOperator(top) || precedence(top) < p {
					break
				}
				output = append(output, top)
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, tok)

		case KindLParen:
			stack = append(stack, tok)

		case KindRParen:
			matched := false
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.Kind == KindLParen {
					matched = true
					break
				}
				output = append(output, top)
			}
			if !matched {
				return nil, errors.Formula(stageParse, tok.Pos, "unmatched ) at %d", tok.Pos)
			}

		default:
			return nil, errors.Formula(stageParse, tok.Pos, "unexpected %s token", tok.Kind)
		}
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.Kind == KindLParen {
			return nil, errors.Formula(stageParse, top.Pos, "unclosed ( at %d", top.Pos)
		}
		output = append(output, top)
	}
	return output, nil
}

// startsOperand reports whether position i is where an operand is expected.
func startsOperand(tokens []Token, i int) bool {
	if i == 0 {
		return true
	}
	prev := tokens[i-1]
	return prev.Kind == KindOp || prev.Kind == KindLParen
}
