package assembler

import (
	"strconv"
	"strings"

	"github.com/mileusna/conditional"
)

const maxTextBytes = 30

// runPass2 re-walks the annotated lines against the frozen symbol table,
// resolves addressing for every instruction and assembles the object
// records. Errors are collected per line; when any occurred, no object
// program is returned.
func runPass2(p1 *pass1Result) (*objectProgram, ErrorList) {
	st := &pass2State{}
	entry := p1.block.startAddr

	for _, line := range p1.lines {
		var code []byte

		switch line.mnemonic {
		case "START", "EQU":
			continue

		case "END":
			if line.operand != "" {
				sym, ok := p1.symbols[line.operand]
				if !ok || !sym.defined {
					st.errs = append(st.errs, errorf(ErrUndefinedSymbol, line.num, "%s", line.operand))
					continue
				}
				entry = sym.address
			}
			continue

		case "BASE":
			ast, aerr := parseOperand(line.num, line.operand)
			if aerr != nil {
				st.errs = append(st.errs, aerr)
				continue
			}
			v, _, aerr := ast.Expr.eval(line.num, p1.symbols, line.loc)
			if aerr != nil {
				st.errs = append(st.errs, aerr)
				continue
			}
			st.baseAddr = v
			st.baseSet = true
			continue

		case "NOBASE":
			st.baseSet = false
			continue

		case "RESW", "RESB":
			// reserved storage is never filled; the next text record
			// starts fresh at the following address
			st.flush()
			continue

		case "WORD":
			v, err := strconv.ParseInt(line.operand, 0, 32)
			if err != nil {
				st.errs = append(st.errs, errorf(ErrMalformedLine, line.num, "bad WORD operand %q", line.operand))
				continue
			}
			w := uint32(v) & 0xFFFFFF
			code = []byte{byte(w >> 16), byte(w >> 8), byte(w)}

		case "BYTE":
			var aerr *Error
			code, aerr = encodeByte(line.num, line.operand)
			if aerr != nil {
				st.errs = append(st.errs, aerr)
				continue
			}

		default:
			var aerr *Error
			code, aerr = encodeInstruction(line, p1, st)
			if aerr != nil {
				st.errs = append(st.errs, aerr)
				continue
			}
		}

		line.objectCode = code
		st.emit(line.loc, code)
	}
	st.flush()

	if len(st.errs) > 0 {
		return nil, st.errs
	}

	return &objectProgram{
		header: headerRecord{name: p1.block.name, start: p1.block.startAddr, length: p1.block.length},
		texts:  st.texts,
		mods:   st.mods,
		end:    endRecord{first: entry},
	}, nil
}

// emit appends object bytes to the current text record, closing it whenever
// the 30-byte cap would be exceeded or the address sequence breaks. A chunk
// that cannot fit even an empty record is split across successive records; a
// smaller chunk always lands whole in the next one.
func (st *pass2State) emit(loc uint32, code []byte) {
	if len(code) == 0 {
		return
	}
	if len(st.textBuf) > 0 && st.textStart+uint32(len(st.textBuf)) != loc {
		st.flush()
	}
	if len(st.textBuf) == 0 {
		st.textStart = loc
	}
	for len(code) > 0 {
		if len(st.textBuf) > 0 && len(st.textBuf)+len(code) > maxTextBytes {
			st.flush()
			st.textStart = loc
		}
		n := maxTextBytes - len(st.textBuf)
		if n > len(code) {
			n = len(code)
		}
		st.textBuf = append(st.textBuf, code[:n]...)
		code = code[n:]
		loc += uint32(n)
	}
}

func (st *pass2State) flush() {
	if len(st.textBuf) == 0 {
		return
	}
	data := make([]byte, len(st.textBuf))
	copy(data, st.textBuf)
	st.texts = append(st.texts, textRecord{start: st.textStart, data: data})
	st.textBuf = st.textBuf[:0]
}

func encodeInstruction(line *asmLine, p1 *pass1Result, st *pass2State) ([]byte, *Error) {
	info, ok := lookupInstruction(line.mnemonic)
	if !ok {
		return nil, errorf(ErrUnknownMnemonic, line.num, "%s", line.mnemonic)
	}
	if line.extended && info.format != fmtSIC {
		return nil, errorf(ErrMalformedLine, line.num, "'+' is only valid on a format 3 mnemonic, got %s", line.mnemonic)
	}

	switch info.format {
	case fmtOne:
		if line.operand != "" {
			return nil, errorf(ErrOperandCountMismatch, line.num, "%s takes no operand", line.mnemonic)
		}
		return []byte{info.opcode}, nil
	case fmtTwo:
		return encodeFormat2(line.num, line.mnemonic, line.operand, info.opcode)
	default:
		return encodeFormatSIC(line, info.opcode, p1, st)
	}
}

func encodeFormat2(num int, mnemonic, operand string, opcode byte) ([]byte, *Error) {
	shape := fmt2Tab[mnemonic]
	fields := strings.Split(operand, ",")
	if operand == "" {
		fields = nil
	}
	if len(fields) != shape.operands {
		return nil, errorf(ErrOperandCountMismatch, num,
			"%s wants %d operands, got %d", mnemonic, shape.operands, len(fields))
	}

	r1 := 0
	if shape.firstIsNum {
		v, err := parseNum(strings.TrimSpace(fields[0]))
		if err != nil || v > 15 {
			return nil, errorf(ErrMalformedLine, num, "%s number %q must be 0-15", mnemonic, fields[0])
		}
		r1 = int(v)
	} else {
		name := strings.ToUpper(strings.TrimSpace(fields[0]))
		code, ok := lookupRegister(name)
		if !ok {
			return nil, errorf(ErrUnknownRegister, num, "%s", name)
		}
		r1 = code
	}

	r2 := 0
	if shape.operands == 2 {
		if shape.secondIsNum {
			v, err := parseNum(strings.TrimSpace(fields[1]))
			if err != nil || v < 1 || v > 16 {
				return nil, errorf(ErrMalformedLine, num, "shift count %q must be 1-16", fields[1])
			}
			r2 = int(v) - 1 // shift counts encode as n-1
		} else {
			name := strings.ToUpper(strings.TrimSpace(fields[1]))
			code, ok := lookupRegister(name)
			if !ok {
				return nil, errorf(ErrUnknownRegister, num, "%s", name)
			}
			r2 = code
		}
	}

	return []byte{opcode, byte(r1<<4 | r2&0xF)}, nil
}

func encodeFormatSIC(line *asmLine, opcode byte, p1 *pass1Result, st *pass2State) ([]byte, *Error) {
	n, i, x, b, p := 1, 1, 0, 0, 0
	e := conditional.Int(line.extended, 1, 0)

	var target uint32
	reloc := false

	if line.operand != "" {
		ast, aerr := parseOperand(line.num, line.operand)
		if aerr != nil {
			return nil, aerr
		}
		if ast.Immediate {
			n, i = 0, 1
		} else if ast.Indirect {
			n, i = 1, 0
		}
		x = conditional.Int(ast.Indexed, 1, 0)

		var verr *Error
		target, reloc, verr = ast.Expr.eval(line.num, p1.symbols, line.loc)
		if verr != nil {
			return nil, verr
		}
	}

	if line.extended {
		// format 4: full 20-bit address, relocated at load time
		if reloc && (n == 1) {
			st.mods = append(st.mods, modRecord{addr: line.loc + 1, halfBytes: 5})
		}
		b0 := opcode | byte(n<<1|i)
		b1 := byte((x<<3|b<<2|p<<1|e)<<4) | byte(target>>16&0xF)
		return []byte{b0, b1, byte(target >> 8), byte(target)}, nil
	}

	// format 3: pick a 12-bit displacement
	var disp uint32
	if line.operand == "" {
		disp = 0
	} else if !reloc {
		if target > 0xFFF {
			return nil, errorf(ErrAddressOutOfRange, line.num,
				"constant %d does not fit in 12 bits", target)
		}
		disp = target
	} else {
		pc := line.loc + 3
		d := int32(target) - int32(pc)
		switch {
		case d >= -2048 && d <= 2047:
			p = 1
			disp = uint32(d) & 0xFFF
		case st.baseSet && target >= st.baseAddr && target-st.baseAddr <= 4095:
			b = 1
			disp = target - st.baseAddr
		default:
			return nil, errorf(ErrAddressOutOfRange, line.num,
				"%05X is reachable neither PC- nor base-relative from %05X", target, pc)
		}
	}

	b0 := opcode | byte(n<<1|i)
	b1 := byte((x<<3|b<<2|p<<1|e)<<4) | byte(disp>>8&0xF)
	return []byte{b0, b1, byte(disp)}, nil
}

// encodeByte converts a BYTE literal into object bytes.
func encodeByte(num int, operand string) ([]byte, *Error) {
	switch {
	case strings.HasPrefix(operand, "C'") && strings.HasSuffix(operand, "'"):
		return []byte(operand[2 : len(operand)-1]), nil
	case strings.HasPrefix(operand, "X'") && strings.HasSuffix(operand, "'"):
		digits := operand[2 : len(operand)-1]
		if len(digits)%2 == 1 {
			return nil, errorf(ErrOddHexDigits, num, "X literal %q has %d digits", operand, len(digits))
		}
		out := make([]byte, len(digits)/2)
		for j := 0; j < len(out); j++ {
			v, err := strconv.ParseUint(digits[2*j:2*j+2], 16, 8)
			if err != nil {
				return nil, errorf(ErrMalformedLine, num, "bad hex literal %q", operand)
			}
			out[j] = byte(v)
		}
		return out, nil
	}
	return nil, errorf(ErrMalformedLine, num, "bad BYTE literal %q", operand)
}
