package formula

import (
	"sort"
	"strings"

	"cabinet-pricing/internal/errors"
)

// Program is a formula compiled to postfix, reusable across evaluations
type Program struct {
	postfix []Token
}

// Compile tokenizes and parses src
func Compile(src string) (*Program, error) {
	if strings.TrimSpace(src) == "" {
		return nil, errors.Formula(stageParse, 0, "empty formula")
	}
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	postfix, err := ToPostfix(tokens)
	if err != nil {
		return nil, err
	}
	return &Program{postfix: postfix}, nil
}

// Postfix returns a copy of the compiled token stream
func (p *Program) Postfix() []Token {
	out := make([]Token, len(p.postfix))
	copy(out, p.postfix)
	return out
}

// Eval evaluates the program against vars
func (p *Program) Eval(vars Bindings) (float64, error) {
	return Evaluate(p.postfix, vars)
}

// Identifiers returns the distinct identifiers referenced, in order of first use
func (p *Program) Identifiers() []string {
	seen := make(map[string]bool)
	var names []string
	for _, tok := range p.postfix {
		if tok.Kind == KindIdent && !seen[tok.Text] {
			seen[tok.Text] = true
			names = append(names, tok.Text)
		}
	}
	return names
}

// Eval compiles and evaluates src in one call
func Eval(src string, vars Bindings) (float64, error) {
	prog, err := Compile(src)
	if err != nil {
		return 0, err
	}
	return prog.Eval(vars)
}

// Check validates a formula for authoring. Unlike Eval it reports every unknown
// identifier at once, then evaluates against known to catch malformed structure.
func Check(src string, known Bindings) error {
	prog, err := Compile(src)
	if err != nil {
		return err
	}

	var unknown []string
	for _, name := range prog.Identifiers() {
		if _, ok := known.Lookup(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return errors.Formula(stageEvaluate, 0, "unknown variables: %s", strings.Join(unknown, ", ")).
			WithContext("unknown", unknown)
	}

	_, err = prog.Eval(known)
	return err
}
