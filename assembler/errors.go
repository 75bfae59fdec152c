package assembler

import (
	"fmt"
	"strings"

	"github.com/logrusorgru/aurora"
)

// Error kinds, a closed set
const (
	ErrDuplicateSymbol = iota
	ErrUndefinedSymbol
	ErrUnknownMnemonic
	ErrUnknownRegister
	ErrMalformedLine
	ErrOperandCountMismatch
	ErrAddressOutOfRange
	ErrOddHexDigits
	ErrMissingEnd
	ErrEmptyProgram
)

var kindNames = map[int]string{
	ErrDuplicateSymbol:      "duplicate symbol",
	ErrUndefinedSymbol:      "undefined symbol",
	ErrUnknownMnemonic:      "unknown mnemonic",
	ErrUnknownRegister:      "unknown register",
	ErrMalformedLine:        "malformed line",
	ErrOperandCountMismatch: "operand count mismatch",
	ErrAddressOutOfRange:    "address out of range",
	ErrOddHexDigits:         "odd hex digit count",
	ErrMissingEnd:           "missing END",
	ErrEmptyProgram:         "empty program",
}

// Error is a single diagnostic tied to a source line.
type Error struct {
	Kind    int
	Line    int
	Message string
}

func (e *Error) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("ERROR: %s: %s", kindNames[e.Kind], e.Message)
	}
	return fmt.Sprintf("ERROR: line %d: %s: %s", e.Line, kindNames[e.Kind], e.Message)
}

func errorf(kind, line int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)}
}

// ErrorList collects per-line diagnostics during pass 2 so one run can
// report every failing line instead of stopping at the first.
type ErrorList []*Error

func (l ErrorList) Error() string {
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// Report is the colored variant for terminal output.
func (l ErrorList) Report() string {
	var sb strings.Builder
	for _, e := range l {
		sb.WriteString(aurora.Red(e.Error()).String())
		sb.WriteString("\n")
	}
	return sb.String()
}
