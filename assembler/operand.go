package assembler

import (
	"github.com/alecthomas/participle"
	"github.com/japanoise/numparse"
)

// Grammar for instruction operands and EQU expressions. Addressing markers
// are extracted here without being resolved; resolution happens in pass 2
// against the frozen symbol table.

type operandAST struct {
	Immediate bool     `[ @"#"`
	Indirect  bool     `| @"@" ]`
	Expr      *exprAST `@@`
	Indexed   bool     `[ "," @("X" | "x") ]`
}

type exprAST struct {
	Star   bool     `( @"*"`
	Number *string  `| @Int`
	Symbol *string  `| @Ident )`
	Op     string   `[ @("+" | "-")`
	Term   *termAST `@@ ]`
}

type termAST struct {
	Number *string `  @Int`
	Symbol *string `| @Ident`
}

var operandParser = participle.MustBuild(
	&operandAST{},
	participle.Lexer(asmLexer),
)

func parseOperand(num int, text string) (*operandAST, *Error) {
	ast := &operandAST{}
	if err := operandParser.ParseString(text, ast); err != nil {
		return nil, errorf(ErrMalformedLine, num, "bad operand %q: %s", text, err.Error())
	}
	if ast.Immediate && ast.Indirect {
		return nil, errorf(ErrMalformedLine, num, "operand %q is both immediate and indirect", text)
	}
	return ast, nil
}

func parseNum(s string) (uint32, error) {
	v, err := numparse.UNumParse(s)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// eval resolves an expression against the symbol table. locctr stands in for
// '*'. The second return reports whether the value is relocatable, i.e.
// anchored to a program address rather than a plain constant.
func (e *exprAST) eval(num int, symbols map[string]*symbol, locctr uint32) (uint32, bool, *Error) {
	var value uint32
	reloc := false

	switch {
	case e.Star:
		value = locctr
		reloc = true
	case e.Number != nil:
		v, err := parseNum(*e.Number)
		if err != nil {
			return 0, false, errorf(ErrMalformedLine, num, "bad number %q", *e.Number)
		}
		value = v
	default:
		sym, ok := symbols[*e.Symbol]
		if !ok || !sym.defined {
			return 0, false, errorf(ErrUndefinedSymbol, num, "%s", *e.Symbol)
		}
		value = sym.address
		reloc = true
	}

	if e.Term != nil {
		var term uint32
		termReloc := false
		if e.Term.Number != nil {
			v, err := parseNum(*e.Term.Number)
			if err != nil {
				return 0, false, errorf(ErrMalformedLine, num, "bad number %q", *e.Term.Number)
			}
			term = v
		} else {
			sym, ok := symbols[*e.Term.Symbol]
			if !ok || !sym.defined {
				return 0, false, errorf(ErrUndefinedSymbol, num, "%s", *e.Term.Symbol)
			}
			term = sym.address
			termReloc = true
		}
		if e.Op == "-" {
			value -= term
			// the difference of two addresses is a plain constant
			if reloc && termReloc {
				reloc = false
			}
		} else {
			value += term
			reloc = reloc || termReloc
		}
	}

	return value & 0xFFFFF, reloc, nil
}
