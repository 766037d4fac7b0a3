package formula

import (
	"math"

	"cabinet-pricing/internal/errors"
)

// Bindings resolves identifiers to values during evaluation
type Bindings interface {
	Lookup(name string) (float64, bool)
}

// Vars is a map-backed Bindings
type Vars map[string]float64

// Lookup implements Bindings
func (v Vars) Lookup(name string) (float64, bool) {
	x, ok := v[name]
	return x, ok
}

// Evaluate runs a postfix token stream against vars.
//
// Unknown identifiers fail; they never default to zero. Division and modulo
// by zero yield 0 so a badly authored formula cannot crash the configurator.
// Exactly one value must remain on the stack at the end.
func Evaluate(postfix []Token, vars Bindings) (float64, error) {
	stack := make([]float64, 0, len(postfix))

	for _, tok := range postfix {
		switch tok.Kind {
		case KindNumber:
			stack = append(stack, tok.Value)

		case KindIdent:
			if vars == nil {
				return 0, errors.Formula(stageEvaluate, tok.Pos, "unknown variable %q", tok.Text)
			}
			v, ok := vars.Lookup(tok.Text)
			if !ok {
				return 0, errors.Formula(stageEvaluate, tok.Pos, "unknown variable %q", tok.Text).
					WithContext("identifier", tok.Text)
			}
			stack = append(stack, v)

		case KindNeg:
			if len(stack) < 1 {
				return 0, errors.Formula(stageEvaluate, tok.Pos, "missing operand for unary minus")
			}
			stack[len(stack)-1] = -stack[len(stack)-1]

		case KindOp:
			if len(stack) < 2 {
				return 0, errors.Formula(stageEvaluate, tok.Pos, "missing operand for %s", tok.Text)
			}
			right := stack[len(stack)-1]
			left := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			stack = append(stack, apply(tok.Text, left, right))

		default:
			return 0, errors.Formula(stageEvaluate, tok.Pos, "unexpected %s in postfix stream", tok.Kind)
		}
	}

	if len(stack) != 1 {
		return 0, errors.Formula(stageEvaluate, 0, "malformed expression: %d values left on stack", len(stack))
	}
	result := stack[0]
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, errors.Formula(stageEvaluate, 0, "result is not finite")
	}
	return result, nil
}

func apply(op string, left, right float64) float64 {
	switch op {
	case "+":
		return left + right
	case "-":
		return left - right
	case "*":
		return left * right
	case "/":
		if right == 0 {
			return 0
		}
		return left / right
	case "%":
		if right == 0 {
			return 0
		}
		return math.Mod(left, right)
	}
	return math.NaN()
}
