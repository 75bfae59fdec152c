package assembler

// Instruction format tags
// Encoding logic branches on these, never on the mnemonic string itself
const (
	fmtOne = 1
	fmtTwo = 2
	fmtSIC = 3 // format 3, or format 4 when the mnemonic carries a '+' prefix
)

type opInfo struct {
	opcode byte
	format int
}

// opTab maps every recognized mnemonic to its opcode byte and format tag.
// Values are fixed by the SIC/XE reference.
var opTab = map[string]opInfo{
	// Format 3/4
	"ADD":  {0x18, fmtSIC},
	"AND":  {0x40, fmtSIC},
	"COMP": {0x28, fmtSIC},
	"DIV":  {0x24, fmtSIC},
	"J":    {0x3C, fmtSIC},
	"JEQ":  {0x30, fmtSIC},
	"JGT":  {0x34, fmtSIC},
	"JLT":  {0x38, fmtSIC},
	"JSUB": {0x48, fmtSIC},
	"LDA":  {0x00, fmtSIC},
	"LDB":  {0x68, fmtSIC},
	"LDCH": {0x50, fmtSIC},
	"LDL":  {0x08, fmtSIC},
	"LDS":  {0x6C, fmtSIC},
	"LDT":  {0x74, fmtSIC},
	"LDX":  {0x04, fmtSIC},
	"LPS":  {0xD0, fmtSIC},
	"MUL":  {0x20, fmtSIC},
	"OR":   {0x44, fmtSIC},
	"RD":   {0xD8, fmtSIC},
	"RSUB": {0x4C, fmtSIC},
	"SSK":  {0xEC, fmtSIC},
	"STA":  {0x0C, fmtSIC},
	"STB":  {0x78, fmtSIC},
	"STCH": {0x54, fmtSIC},
	"STI":  {0xD4, fmtSIC},
	"STL":  {0x14, fmtSIC},
	"STS":  {0x7C, fmtSIC},
	"STSW": {0xE8, fmtSIC},
	"STT":  {0x84, fmtSIC},
	"STX":  {0x10, fmtSIC},
	"SUB":  {0x1C, fmtSIC},
	"TD":   {0xE0, fmtSIC},
	"TIX":  {0x2C, fmtSIC},
	"WD":   {0xDC, fmtSIC},

	// Format 2
	"ADDR":   {0x90, fmtTwo},
	"CLEAR":  {0xB4, fmtTwo},
	"COMPR":  {0xA0, fmtTwo},
	"DIVR":   {0x9C, fmtTwo},
	"MULR":   {0x98, fmtTwo},
	"RMO":    {0xAC, fmtTwo},
	"SHIFTL": {0xA4, fmtTwo},
	"SHIFTR": {0xA8, fmtTwo},
	"SUBR":   {0x94, fmtTwo},
	"SVC":    {0xB0, fmtTwo},
	"TIXR":   {0xB8, fmtTwo},

	// Format 1
	"FIX":   {0xC4, fmtOne},
	"FLOAT": {0xC0, fmtOne},
	"HIO":   {0xF4, fmtOne},
	"NORM":  {0xC8, fmtOne},
	"SIO":   {0xF0, fmtOne},
	"TIO":   {0xF8, fmtOne},
}

// regTab maps register names to the 4-bit codes packed into format 2 operand bytes.
var regTab = map[string]int{
	"A":  0,
	"X":  1,
	"L":  2,
	"B":  3,
	"S":  4,
	"T":  5,
	"F":  6,
	"PC": 8,
	"SW": 9,
}

// Operand shapes for format 2 mnemonics: how many comma-separated operands are
// required and whether the second one is a number instead of a register.
type fmt2Shape struct {
	operands    int
	secondIsNum bool // SHIFTL/SHIFTR shift count, stored as n-1
	firstIsNum  bool // SVC interrupt number
}

var fmt2Tab = map[string]fmt2Shape{
	"ADDR":   {operands: 2},
	"COMPR":  {operands: 2},
	"DIVR":   {operands: 2},
	"MULR":   {operands: 2},
	"RMO":    {operands: 2},
	"SUBR":   {operands: 2},
	"SHIFTL": {operands: 2, secondIsNum: true},
	"SHIFTR": {operands: 2, secondIsNum: true},
	"CLEAR":  {operands: 1},
	"TIXR":   {operands: 1},
	"SVC":    {operands: 1, firstIsNum: true},
}

// directives recognized alongside the opcode table
var directives = map[string]bool{
	"START":  true,
	"END":    true,
	"BYTE":   true,
	"WORD":   true,
	"RESB":   true,
	"RESW":   true,
	"EQU":    true,
	"BASE":   true,
	"NOBASE": true,
}

func lookupInstruction(mnemonic string) (opInfo, bool) {
	info, ok := opTab[mnemonic]
	return info, ok
}

func lookupRegister(name string) (int, bool) {
	code, ok := regTab[name]
	return code, ok
}

func isDirective(mnemonic string) bool {
	return directives[mnemonic]
}
