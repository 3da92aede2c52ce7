package disassembler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ff7tools/terraform/constants"
	"github.com/ff7tools/terraform/opcode"
)

// applyEqualityPeephole implements spec.md §4.4's two IsEqual peepholes:
// when the just-popped operand is SpecialByte($PlayerEntityModelId) or
// SpecialByte($LastFieldID), the *other* operand (already rendered, sitting
// at the top of params) gets substituted with a Models/FieldIDs name if its
// raw value matches one.
func applyEqualityPeephole(parentCode uint16, popped Instruction, params *[]string) {
	if parentCode != opcode.CodeIsEqual || popped.Mnemonic != "SpecialByte" || len(popped.Params) == 0 {
		return
	}
	if len(*params) == 0 {
		return
	}

	switch popped.Params[0] {
	case "$" + constants.SpecialVars[8]: // PlayerEntityModelId
		substituteTop(params, constants.Models)
	case "$" + constants.SpecialVars[6]: // LastFieldID
		substituteTop(params, constants.FieldIDs)
	}
}

func substituteTop(params *[]string, table map[int]string) {
	p := *params
	last := p[len(p)-1]
	if v, ok := parseDecimal(last); ok {
		if name, ok := table[v]; ok {
			p[len(p)-1] = "$" + name
		}
	}
}

func parseDecimal(s string) (int, bool) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// renderOperand renders one already-decoded stack operand into the
// parameter text it contributes to its parent opcode, applying the
// Model/FieldID value substitutions and the expression-folding rules of
// spec.md §4.4 step 3.
func renderOperand(parentWord uint16, popped Instruction, argIndex int) string {
	if opcode.ModelOpcodes[parentWord] && popped.Mnemonic == "Value" && len(popped.Params) == 1 {
		if v, ok := parseDecimal(popped.Params[0]); ok {
			if name, ok := constants.Models[v]; ok {
				return "$" + name
			}
		}
	}
	if parentWord == opcode.CodeFieldJump && argIndex == 1 && popped.Mnemonic == "Value" && len(popped.Params) == 1 {
		if v, ok := parseDecimal(popped.Params[0]); ok {
			if name, ok := constants.FieldIDs[v]; ok {
				return "$" + name
			}
		}
	}

	if popped.Mnemonic == "Neg" {
		return "-" + popped.Params[0]
	}
	if tok, ok := opcode.InfixToken(popped.Code); ok && len(popped.Params) == 2 {
		return fmt.Sprintf("%s %s %s", popped.Params[0], tok, popped.Params[1])
	}
	if popped.Mnemonic == "Value" {
		return popped.Params[0]
	}
	return fmt.Sprintf("%s(%s)", popped.Mnemonic, strings.Join(popped.Params, ", "))
}
