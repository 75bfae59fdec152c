package assembler

// symbol is one entry in the pass 1 symbol table.
// A name is defined at most once; a second definition is an error, never an overwrite.
type symbol struct {
	name    string
	address uint32 // 20-bit
	defined bool
}

// asmLine is one source line annotated by the passes. Pass 1 fixes loc and
// never changes it afterwards; pass 2 only fills in objectCode.
type asmLine struct {
	num        int // 1-based source line number
	label      string
	mnemonic   string
	operand    string
	loc        uint32
	extended   bool // '+' prefix on the mnemonic, format 4
	directive  bool
	objectCode []byte
}

// programBlock is derived once from START and the final location counter at END.
type programBlock struct {
	name      string
	startAddr uint32
	length    uint32
}

// pass1Result is the hand-off from pass 1 to pass 2. Pass 2 treats the
// symbol table as read-only.
type pass1Result struct {
	lines   []*asmLine
	symbols map[string]*symbol
	block   programBlock
	entry   string // END operand, names the first executable instruction
}

// pass2State carries the mutable encoding state across lines of pass 2.
type pass2State struct {
	baseAddr uint32
	baseSet  bool

	// current text record accumulator
	textStart uint32
	textBuf   []byte

	texts []textRecord
	mods  []modRecord

	errs ErrorList
}
