package assembler

import "testing"

func TestPass1Locations(t *testing.T) {
	source := []string{
		"COPY START 1000",
		"FIRST LDA FIVE",     // 1000, 3 bytes
		"SIX +LDT FIVE",      // 1003, 4 bytes
		"CLR CLEAR X",        // 1007, 2 bytes
		"FP FIX",             // 1009, 1 byte
		"EOF BYTE C'EOF'",    // 100A, 3 bytes
		"INPUT BYTE X'F1'",   // 100D, 1 byte
		"FIVE WORD 5",        // 100E, 3 bytes
		"BUFFER RESW 2",      // 1011, 6 bytes
		"PAD RESB 4",         // 1017, 4 bytes
		"END FIRST",
	}

	p1, err := runPass1(source)
	if err != nil {
		t.Fatalf("runPass1 failed: %v", err)
	}

	want := map[string]uint32{
		"COPY":   0x1000,
		"FIRST":  0x1000,
		"SIX":    0x1003,
		"CLR":    0x1007,
		"FP":     0x1009,
		"EOF":    0x100A,
		"INPUT":  0x100D,
		"FIVE":   0x100E,
		"BUFFER": 0x1011,
		"PAD":    0x1017,
	}
	for name, addr := range want {
		sym, ok := p1.symbols[name]
		if !ok || !sym.defined {
			t.Errorf("symbol %s missing from the table", name)
			continue
		}
		if sym.address != addr {
			t.Errorf("symbol %s = %04X, want %04X", name, sym.address, addr)
		}
	}

	if p1.block.startAddr != 0x1000 {
		t.Errorf("start address = %04X, want 1000", p1.block.startAddr)
	}
	if p1.block.length != 0x1B {
		t.Errorf("program length = %X, want 1B", p1.block.length)
	}
	if p1.entry != "FIRST" {
		t.Errorf("entry = %q, want FIRST", p1.entry)
	}
}

// Every non-reserving pair of lines must satisfy loc(i+1) = loc(i) + length(i).
func TestPass1LocationsAreContiguous(t *testing.T) {
	source := []string{
		"P START 0",
		"LDA ALPHA",
		"ADD ALPHA",
		"STA ALPHA",
		"RSUB",
		"ALPHA WORD 1",
		"END",
	}
	p1, err := runPass1(source)
	if err != nil {
		t.Fatal(err)
	}

	locs := []uint32{}
	for _, l := range p1.lines {
		if l.mnemonic == "START" || l.mnemonic == "END" {
			continue
		}
		locs = append(locs, l.loc)
	}
	for i := 1; i < len(locs); i++ {
		if locs[i] != locs[i-1]+3 {
			t.Errorf("line %d at %04X, want %04X", i, locs[i], locs[i-1]+3)
		}
	}
}

func TestPass1DuplicateSymbol(t *testing.T) {
	source := []string{
		"P START 0",
		"ALPHA WORD 1",
		"ALPHA WORD 2",
		"END",
	}
	_, err := runPass1(source)
	aerr, ok := err.(*Error)
	if !ok || aerr.Kind != ErrDuplicateSymbol {
		t.Fatalf("got %v, want ErrDuplicateSymbol", err)
	}
	if aerr.Line != 3 {
		t.Errorf("error line = %d, want 3 (the second occurrence)", aerr.Line)
	}
}

func TestPass1MissingEnd(t *testing.T) {
	source := []string{
		"P START 0",
		"LDA ALPHA",
		"ALPHA WORD 1",
	}
	_, err := runPass1(source)
	aerr, ok := err.(*Error)
	if !ok || aerr.Kind != ErrMissingEnd {
		t.Fatalf("got %v, want ErrMissingEnd", err)
	}
}

func TestPass1Equ(t *testing.T) {
	source := []string{
		"P START 0",
		"BUFFER RESB 4096",
		"BUFEND EQU *",
		"MAXLEN EQU BUFEND-BUFFER",
		"HALF EQU 2048",
		"NEAR EQU BUFFER+16",
		"LDA BUFFER",
		"END",
	}
	p1, err := runPass1(source)
	if err != nil {
		t.Fatalf("runPass1 failed: %v", err)
	}

	want := map[string]uint32{
		"BUFFER": 0,
		"BUFEND": 0x1000,
		"MAXLEN": 0x1000,
		"HALF":   0x800,
		"NEAR":   0x10,
	}
	for name, addr := range want {
		sym, ok := p1.symbols[name]
		if !ok {
			t.Errorf("symbol %s missing", name)
			continue
		}
		if sym.address != addr {
			t.Errorf("%s = %X, want %X", name, sym.address, addr)
		}
	}

	// EQU consumes no bytes: LDA follows BUFEND directly after the buffer
	for _, l := range p1.lines {
		if l.mnemonic == "LDA" && l.loc != 0x1000 {
			t.Errorf("LDA at %04X, want 1000", l.loc)
		}
	}
}

func TestPass1CommentsAndLineNumbers(t *testing.T) {
	source := []string{
		"; program header comment",
		"5 COPY START 1000",
		"",
		"10 FIRST LDA FIVE ; trailing comment",
		"15 FIVE WORD 5",
		"20 END FIRST",
	}
	p1, err := runPass1(source)
	if err != nil {
		t.Fatalf("runPass1 failed: %v", err)
	}
	if p1.symbols["FIVE"].address != 0x1003 {
		t.Errorf("FIVE = %04X, want 1003", p1.symbols["FIVE"].address)
	}
	if len(p1.lines) != 4 {
		t.Errorf("%d line records, want 4 (comments and blanks skipped)", len(p1.lines))
	}
}

func TestPass1UnbalancedOperandAborts(t *testing.T) {
	source := []string{
		"P START 0",
		"LDA #@FIVE",
		"FIVE WORD 5",
		"END",
	}
	_, err := runPass1(source)
	aerr, ok := err.(*Error)
	if !ok || aerr.Kind != ErrMalformedLine {
		t.Fatalf("got %v, want ErrMalformedLine", err)
	}
	if aerr.Line != 2 {
		t.Errorf("error line = %d, want 2", aerr.Line)
	}
}
