package assembler

import (
	"fmt"
	"strings"
)

// Object program records. All numeric fields render as fixed-width
// uppercase hex with no separators.

type headerRecord struct {
	name   string
	start  uint32
	length uint32
}

func (r headerRecord) String() string {
	name := r.name
	if name == "" {
		name = "PROG"
	}
	if len(name) > 6 {
		name = name[:6]
	}
	return fmt.Sprintf("H%-6s%06X%06X", name, r.start, r.length)
}

type textRecord struct {
	start uint32
	data  []byte // at most 30 bytes, contiguous in address space
}

func (r textRecord) String() string {
	return fmt.Sprintf("T%06X%02X%X", r.start, len(r.data), r.data)
}

type modRecord struct {
	addr      uint32
	halfBytes int
}

func (r modRecord) String() string {
	return fmt.Sprintf("M%06X%02X", r.addr, r.halfBytes)
}

type endRecord struct {
	first uint32
}

func (r endRecord) String() string {
	return fmt.Sprintf("E%06X", r.first)
}

// objectProgram is the ordered record set produced by pass 2.
type objectProgram struct {
	header headerRecord
	texts  []textRecord
	mods   []modRecord
	end    endRecord
}

// Render concatenates the records in fixed H/T/M/E order. It performs no
// further validation beyond refusing an empty record set.
func (p *objectProgram) Render() (string, error) {
	if p == nil || (len(p.texts) == 0 && len(p.mods) == 0 && p.header.length == 0) {
		return "", errorf(ErrEmptyProgram, 0, "no records to emit")
	}

	var sb strings.Builder
	sb.WriteString(p.header.String())
	sb.WriteString("\n")
	for _, t := range p.texts {
		sb.WriteString(t.String())
		sb.WriteString("\n")
	}
	for _, m := range p.mods {
		sb.WriteString(m.String())
		sb.WriteString("\n")
	}
	sb.WriteString(p.end.String())
	sb.WriteString("\n")
	return sb.String(), nil
}
