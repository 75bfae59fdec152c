package assembler

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/logrusorgru/aurora"
	"github.com/mileusna/conditional"
)

// Result holds everything a finished translation produced.
type Result struct {
	Program string // rendered H/T/M/E object program

	p1  *pass1Result
	obj *objectProgram
}

// Assemble runs the full two-pass translation over a source text. Pass 1
// must complete before pass 2 starts; pass 2 gets the symbol table frozen.
func Assemble(source string) (*Result, error) {
	lines := strings.Split(source, "\n")

	p1, err := runPass1(lines)
	if err != nil {
		return nil, err
	}

	obj, errs := runPass2(p1)
	if len(errs) > 0 {
		return nil, errs
	}

	program, rerr := obj.Render()
	if rerr != nil {
		return nil, rerr
	}

	return &Result{Program: program, p1: p1, obj: obj}, nil
}

// AssembleFile assembles a source file and writes the object program plus
// the intermediate listings into outputDir.
func AssembleFile(inputFile, outputDir string, verbose bool) error {
	log.Println("Starting assembly of " + inputFile)

	data, err := os.ReadFile(inputFile)
	if err != nil {
		return err
	}

	res, err := Assemble(string(data))
	if err != nil {
		if list, ok := err.(ErrorList); ok {
			fmt.Fprint(os.Stderr, list.Report())
		} else if aerr, ok := err.(*Error); ok {
			fmt.Fprintln(os.Stderr, aurora.Red(aerr.Error()).String())
		}
		return err
	}

	if verbose {
		spew.Dump(res.p1.symbols)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}
	outputs := map[string]string{
		"out_pass1.txt": res.Pass1Listing(),
		"out_pass2.txt": res.Pass2Listing(),
		"symbTable.txt": res.SymbolTable(),
		"HTME.txt":      res.Program,
	}
	for name, content := range outputs {
		if err := os.WriteFile(filepath.Join(outputDir, name), []byte(content), 0644); err != nil {
			return err
		}
	}

	log.Printf("Assembly completed, %d bytes written\n", len(res.Program))
	fmt.Println(res.Summary())
	return nil
}

// Pass1Listing is each line's assigned location next to its source fields.
func (r *Result) Pass1Listing() string {
	var sb strings.Builder
	for _, l := range r.p1.lines {
		fmt.Fprintf(&sb, "%04X %s\n", l.loc, sourceFields(l))
	}
	return sb.String()
}

// Pass2Listing adds the emitted object code to every line.
func (r *Result) Pass2Listing() string {
	var sb strings.Builder
	for _, l := range r.p1.lines {
		fmt.Fprintf(&sb, "%04X %-30s %X\n", l.loc, sourceFields(l), l.objectCode)
	}
	return sb.String()
}

// SymbolTable lists the defined symbols sorted by name.
func (r *Result) SymbolTable() string {
	names := make([]string, 0, len(r.p1.symbols))
	for name := range r.p1.symbols {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("Symbol\tAddress\n")
	for _, name := range names {
		fmt.Fprintf(&sb, "%s\t%04X\n", name, r.p1.symbols[name].address)
	}
	return sb.String()
}

// Summary is the colored completion report printed after a successful run.
func (r *Result) Summary() string {
	b := r.p1.block
	var sb strings.Builder
	fmt.Fprintf(&sb, "Program Name:   %s\n", aurora.Blue(conditional.String(b.name != "", b.name, "N/A")))
	fmt.Fprintf(&sb, "Start Address:  %s\n", aurora.Blue(fmt.Sprintf("%06X", b.startAddr)))
	fmt.Fprintf(&sb, "Program Length: %s (%d bytes)\n", aurora.Blue(fmt.Sprintf("%06X", b.length)), b.length)
	fmt.Fprintf(&sb, "Symbols Defined: %d, Text Records: %d, Modification Records: %d",
		len(r.p1.symbols), len(r.obj.texts), len(r.obj.mods))
	return sb.String()
}

func sourceFields(l *asmLine) string {
	mnem := l.mnemonic
	if l.extended {
		mnem = "+" + mnem
	}
	return strings.TrimRight(fmt.Sprintf("%-8s %-7s %s", l.label, mnem, l.operand), " ")
}
