package assembler

import (
	"strconv"
	"strings"

	"github.com/mileusna/conditional"
)

// runPass1 walks the source in order, assigns every line its location and
// builds the symbol table. Structural errors abort immediately; anything
// that only affects encoding is left for pass 2 to report per line.
func runPass1(source []string) (*pass1Result, error) {
	res := &pass1Result{
		symbols: make(map[string]*symbol),
	}

	var locctr uint32
	sawEnd := false

	for idx, raw := range source {
		num := idx + 1
		lt, aerr := tokenizeLine(num, raw)
		if aerr != nil {
			return nil, aerr
		}
		if lt.blank || lt.comment {
			continue
		}

		if lt.mnemonic == "START" {
			name, value := lt.label, lt.operand
			if name == "" {
				// Tolerate "START <name> <value>" as well
				fields := strings.Fields(lt.operand)
				if len(fields) == 2 {
					name, value = fields[0], fields[1]
				}
			}
			addr, err := strconv.ParseUint(value, 16, 20)
			if err != nil {
				return nil, errorf(ErrMalformedLine, num, "bad START address %q", value)
			}
			locctr = uint32(addr)
			res.block.name = name
			res.block.startAddr = locctr
			if name != "" {
				res.symbols[name] = &symbol{name: name, address: locctr, defined: true}
			}
			res.lines = append(res.lines, &asmLine{
				num: num, label: name, mnemonic: "START",
				operand: value, loc: locctr, directive: true,
			})
			continue
		}

		line := &asmLine{
			num:       num,
			label:     lt.label,
			mnemonic:  lt.mnemonic,
			operand:   lt.operand,
			loc:       locctr,
			extended:  lt.extended,
			directive: isDirective(lt.mnemonic),
		}

		if lt.label != "" {
			if prev, ok := res.symbols[lt.label]; ok && prev.defined {
				return nil, errorf(ErrDuplicateSymbol, num, "%s already defined at %05X", lt.label, prev.address)
			}
			addr := locctr
			if lt.mnemonic == "EQU" {
				v, err := evalEqu(num, lt.operand, res.symbols, locctr)
				if err != nil {
					return nil, err
				}
				addr = v
				line.loc = v
			}
			res.symbols[lt.label] = &symbol{name: lt.label, address: addr, defined: true}
		}

		length, err := lineLength(num, lt)
		if err != nil {
			return nil, err
		}

		res.lines = append(res.lines, line)

		if lt.mnemonic == "END" {
			res.entry = lt.operand
			sawEnd = true
			break
		}
		locctr += length
	}

	if !sawEnd {
		return nil, errorf(ErrMissingEnd, len(source), "no END directive reached")
	}

	res.block.length = locctr - res.block.startAddr
	return res, nil
}

// lineLength determines how many bytes a line consumes. Unknown mnemonics
// are assumed format 3 here so the walk can go on; pass 2 reports them.
func lineLength(num int, lt *lineToken) (uint32, *Error) {
	switch lt.mnemonic {
	case "WORD":
		return 3, nil
	case "BYTE":
		n, aerr := byteLength(lt.operand)
		if aerr != nil && aerr.Kind == ErrMalformedLine {
			aerr.Line = num
			return 0, aerr
		}
		// odd digit counts round up here and fail in pass 2
		return n, nil
	case "RESW":
		n, err := parseNum(lt.operand)
		if err != nil {
			return 0, errorf(ErrMalformedLine, num, "bad RESW count %q", lt.operand)
		}
		return 3 * n, nil
	case "RESB":
		n, err := parseNum(lt.operand)
		if err != nil {
			return 0, errorf(ErrMalformedLine, num, "bad RESB count %q", lt.operand)
		}
		return n, nil
	case "EQU", "BASE", "NOBASE", "END":
		return 0, nil
	}

	info, ok := lookupInstruction(lt.mnemonic)
	if !ok {
		return 3, nil
	}
	switch info.format {
	case fmtOne:
		return 1, nil
	case fmtTwo:
		return 2, nil
	default:
		if lt.operand != "" {
			// surface unbalanced addressing syntax before pass 2 runs
			if _, aerr := parseOperand(num, lt.operand); aerr != nil {
				return 0, aerr
			}
		}
		return uint32(conditional.Int(lt.extended, 4, 3)), nil
	}
}

// evalEqu binds a label to an expression value instead of the location counter.
func evalEqu(num int, operand string, symbols map[string]*symbol, locctr uint32) (uint32, *Error) {
	if operand == "" {
		return 0, errorf(ErrMalformedLine, num, "EQU needs an operand")
	}
	ast, aerr := parseOperand(num, operand)
	if aerr != nil {
		return 0, aerr
	}
	if ast.Immediate || ast.Indirect || ast.Indexed {
		return 0, errorf(ErrMalformedLine, num, "addressing markers are not valid in EQU %q", operand)
	}
	v, _, aerr := ast.Expr.eval(num, symbols, locctr)
	if aerr != nil {
		return 0, aerr
	}
	return v, nil
}

// byteLength is the storage size of a BYTE literal: one byte per character
// for C'..', one per hex digit pair for X'..'.
func byteLength(operand string) (uint32, *Error) {
	switch {
	case strings.HasPrefix(operand, "C'") && strings.HasSuffix(operand, "'"):
		return uint32(len(operand) - 3), nil
	case strings.HasPrefix(operand, "X'") && strings.HasSuffix(operand, "'"):
		digits := len(operand) - 3
		if digits%2 == 1 {
			return uint32(digits+1) / 2, errorf(ErrOddHexDigits, 0, "X literal %q has %d digits", operand, digits)
		}
		return uint32(digits) / 2, nil
	}
	return 0, errorf(ErrMalformedLine, 0, "bad BYTE literal %q", operand)
}
