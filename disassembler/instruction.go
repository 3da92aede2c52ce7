// Package disassembler walks a function's bytecode and folds it back into
// the infix textual assembly form described by spec.md §3/§4.4: arithmetic
// and comparison opcodes become "a OP b" strings, GoTo targets become
// recovered labels, If targets become EndIf markers, and If bodies regain
// their indentation.
package disassembler

import (
	"github.com/ff7tools/terraform/script"
)

// Instruction is one entry on the pseudo-stack used while folding
// expression opcodes, and one line of the final rendered function body.
// Raw is nil for synthesized EndIf markers, which carry no bytecode of
// their own.
type Instruction struct {
	Mnemonic string
	Params   []string
	Code     uint16
	PC       int
	Indent   int
	Raw      []uint16
}

// Function is one fully disassembled function: its instructions in
// program order, the PCs that are jump targets (its labels, 1-based by
// position in this slice), and the index entry it came from.
type Function struct {
	Name         string
	Instructions []Instruction
	Labels       []int
	Entry        script.IndexEntry
	StartOffset  int

	// Duplicate is true when this index entry shares its code offset with
	// an earlier one; such functions carry no instructions.
	Duplicate      bool
	DuplicateIndex int
}
