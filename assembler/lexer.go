package assembler

import (
	"strings"

	"github.com/alecthomas/participle/lexer"
)

// LexerRegex tokenizes one raw source line. Unnamed groups are discarded by
// the regexp lexer, so plain spacing never reaches the token stream.
const LexerRegex = `([ \t\r]+)|` +
	`(?P<Comment>;[^\n]*)|` +
	`(?P<CharLit>C'[^']*')|` +
	`(?P<HexLit>X'[0-9A-Fa-f]*')|` +
	`(?P<Int>[0-9][0-9A-Fa-f]*)|` +
	`(?P<Ident>[A-Za-z_][A-Za-z0-9_]*)|` +
	`(?P<Punct>[#@,+\-*=()])`

var asmLexer = lexer.Must(lexer.Regexp(LexerRegex))

var (
	tokComment = asmLexer.Symbols()["Comment"]
	tokInt     = asmLexer.Symbols()["Int"]
	tokIdent   = asmLexer.Symbols()["Ident"]
	tokPunct   = asmLexer.Symbols()["Punct"]
)

// lineToken is the tokenizer output for a single raw line.
type lineToken struct {
	label    string
	mnemonic string
	operand  string
	extended bool // '+' prefix on the mnemonic
	comment  bool // comment-only line, carries no further meaning
	blank    bool
}

func lexLine(raw string) ([]lexer.Token, error) {
	lx, err := asmLexer.Lex(strings.NewReader(raw))
	if err != nil {
		return nil, err
	}
	all, err := lexer.ConsumeAll(lx)
	if err != nil {
		return nil, err
	}
	toks := make([]lexer.Token, 0, len(all))
	for _, t := range all {
		if !t.EOF() {
			toks = append(toks, t)
		}
	}
	return toks, nil
}

// tokenizeLine splits one raw source line into label, mnemonic and operand.
// A leading line number (as the original listings carry) is dropped. The
// first identifier counts as a label only when it sits in the label column
// and is not itself a recognized mnemonic or directive.
func tokenizeLine(num int, raw string) (*lineToken, *Error) {
	toks, err := lexLine(raw)
	if err != nil {
		return nil, errorf(ErrMalformedLine, num, "%s", err.Error())
	}
	if len(toks) == 0 {
		return &lineToken{blank: true}, nil
	}
	if toks[0].Type == tokComment {
		return &lineToken{comment: true}, nil
	}

	// Strip a leading line number. The label column shifts right with it.
	numbered := false
	if toks[0].Type == tokInt && toks[0].Pos.Column == 1 {
		numbered = true
		toks = toks[1:]
		if len(toks) == 0 {
			return &lineToken{blank: true}, nil
		}
	}

	lt := &lineToken{}
	i := 0

	if toks[i].Type == tokIdent && (numbered || toks[i].Pos.Column == 1) {
		name := strings.ToUpper(toks[i].Value)
		if _, isOp := lookupInstruction(name); !isOp && !isDirective(name) {
			lt.label = toks[i].Value
			i++
		}
	}

	if i < len(toks) && toks[i].Type == tokPunct && toks[i].Value == "+" {
		lt.extended = true
		i++
	}
	if i >= len(toks) || toks[i].Type != tokIdent {
		return nil, errorf(ErrMalformedLine, num, "expected a mnemonic in %q", strings.TrimSpace(raw))
	}
	lt.mnemonic = strings.ToUpper(toks[i].Value)
	i++

	if i < len(toks) && toks[i].Type != tokComment {
		start := toks[i].Pos.Offset
		end := len(raw)
		for j := i; j < len(toks); j++ {
			if toks[j].Type == tokComment {
				end = toks[j].Pos.Offset
				break
			}
		}
		lt.operand = strings.TrimSpace(raw[start:end])
	}

	return lt, nil
}
