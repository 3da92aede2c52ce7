// Package opcode describes every bytecode instruction understood by the
// world-map script interpreter: its mnemonic, its numeric code, how many
// words it consumes from the evaluation stack, how many inline words
// follow it in the code stream, and whether executing it leaves a value
// on the stack.
package opcode

import "fmt"

// Op describes a single opcode.
type Op struct {
	Mnemonic      string
	Code          uint16
	StackArity    int
	InlineArity   int
	ProducesValue bool
}

// RunModelFunctionBase is the first code in the pseudo-opcode range used
// for RunModelFunction. Any word in [RunModelFunctionBase, RunModelFunctionBase+0xFC)
// is interpreted as RunModelFunction with an inline argument equal to
// word-RunModelFunctionBase.
const RunModelFunctionBase = 0x204

// RunModelFunctionEnd is the exclusive upper bound of the pseudo-opcode range.
const RunModelFunctionEnd = 0x300

// SavemapBase is the address of the first byte of the savemap region.
const SavemapBase = 0xBA4

var byCode = map[uint16]Op{}
var byMnemonic = map[string]Op{}

func define(mnemonic string, code uint16, stackArity, inlineArity int, producesValue bool) Op {
	o := Op{Mnemonic: mnemonic, Code: code, StackArity: stackArity, InlineArity: inlineArity, ProducesValue: producesValue}
	if _, ok := byCode[code]; ok {
		panic(fmt.Sprintf("opcode: duplicate code 0x%04x", code))
	}
	if mnemonic != "" {
		if _, ok := byMnemonic[mnemonic]; ok {
			panic(fmt.Sprintf("opcode: duplicate mnemonic %q", mnemonic))
		}
	}
	byCode[code] = o
	if mnemonic != "" {
		byMnemonic[mnemonic] = o
	}
	return o
}

// Expression opcode codes. These are the binary (and two unary) arithmetic,
// bitwise, logical and comparison opcodes. The binary ones and Neg are the
// ones the disassembler folds into infix/prefix text and the assembler
// lowers from operator expressions; Not is rendered and assembled as an
// ordinary call, Not(x).
const (
	CodeNeg              uint16 = 0x015
	CodeNot              uint16 = 0x017
	CodeMul              uint16 = 0x030
	CodeAdd              uint16 = 0x040
	CodeSub              uint16 = 0x041
	CodeShiftLeft        uint16 = 0x050
	CodeShiftRight       uint16 = 0x051
	CodeIsLessThan       uint16 = 0x060
	CodeIsGreaterThan    uint16 = 0x061
	CodeIsLessOrEqual    uint16 = 0x062
	CodeIsGreaterOrEqual uint16 = 0x063
	CodeIsEqual          uint16 = 0x070
	CodeBitAnd           uint16 = 0x080
	CodeBitOr            uint16 = 0x0a0
	CodeLogicAnd         uint16 = 0x0b0
	CodeLogicOr          uint16 = 0x0c0
)

// Ambient/control opcode codes referenced by name elsewhere in the system.
const (
	CodeResetStack    uint16 = 0x100
	CodeValue         uint16 = 0x110
	CodeSavemapBit    uint16 = 0x114
	CodeSpecialWord   uint16 = 0x117
	CodeSavemapByte   uint16 = 0x118
	CodeTempByte      uint16 = 0x119
	CodeSpecialByte   uint16 = 0x11b
	CodeSavemapWord   uint16 = 0x11c
	CodeSpecialBit    uint16 = 0x11f
	CodeGoTo            uint16 = 0x200
	CodeIf              uint16 = 0x201
	CodeReturn          uint16 = 0x203
	CodeWriteTo         uint16 = 0x0e0
	CodeLoadModel       uint16 = 0x300
	CodePlayerControls  uint16 = 0x307
	CodeSetEntityDir    uint16 = 0x304
	CodeSetAltOffset    uint16 = 0x30b
	CodePlaySound       uint16 = 0x31d
	CodePlayLayerAnim   uint16 = 0x34a
	CodeFieldJump       uint16 = 0x318
)

// infixToken maps an expression opcode's code to its rendered infix operator.
var infixToken = map[uint16]string{
	CodeMul:              "*",
	CodeAdd:               "+",
	CodeSub:               "-",
	CodeShiftLeft:         "<<",
	CodeShiftRight:        ">>",
	CodeIsLessThan:        "<",
	CodeIsGreaterThan:     ">",
	CodeIsLessOrEqual:     "<=",
	CodeIsGreaterOrEqual:  ">=",
	CodeIsEqual:           "==",
	CodeBitAnd:            "&",
	CodeBitOr:             "|",
	CodeLogicAnd:          "AND",
	CodeLogicOr:           "OR",
}

// InfixToken returns the textual infix operator for a binary expression
// opcode code, and whether one exists.
func InfixToken(code uint16) (string, bool) {
	t, ok := infixToken[code]
	return t, ok
}

// ModelOpcodes names opcodes whose stack arguments may reference a model by
// numeric ID; the disassembler substitutes $Name for such arguments when the
// value is a known model.
var ModelOpcodes = map[uint16]bool{
	CodeLoadModel: true,
	0x19:          true, // GetDistanceToModel
}

func init() {
	// Expression opcodes.
	define("Neg", CodeNeg, 1, 0, true)
	define("Not", CodeNot, 1, 0, true)
	define("Mul", CodeMul, 2, 0, true)
	define("Add", CodeAdd, 2, 0, true)
	define("Sub", CodeSub, 2, 0, true)
	define("ShiftLeft", CodeShiftLeft, 2, 0, true)
	define("ShiftRight", CodeShiftRight, 2, 0, true)
	define("IsLessThan", CodeIsLessThan, 2, 0, true)
	define("IsGreaterThan", CodeIsGreaterThan, 2, 0, true)
	define("IsLessOrEqual", CodeIsLessOrEqual, 2, 0, true)
	define("IsGreaterOrEqual", CodeIsGreaterOrEqual, 2, 0, true)
	define("IsEqual", CodeIsEqual, 2, 0, true)
	define("BitAnd", CodeBitAnd, 2, 0, true)
	define("BitOr", CodeBitOr, 2, 0, true)
	define("AND", CodeLogicAnd, 2, 0, true)
	define("OR", CodeLogicOr, 2, 0, true)

	// Ambient / control / data opcodes.
	define("ResetStack", CodeResetStack, 0, 0, false)
	define("Value", CodeValue, 0, 1, true)
	define("SavemapBit", CodeSavemapBit, 0, 1, true)
	define("SpecialByte", CodeSpecialByte, 0, 1, true)
	define("SavemapByte", CodeSavemapByte, 0, 1, true)
	define("TempByte", CodeTempByte, 0, 1, true)
	define("SpecialWord", CodeSpecialWord, 0, 1, true)
	define("SavemapWord", CodeSavemapWord, 0, 1, true)
	define("SpecialBit", CodeSpecialBit, 0, 1, true)
	define("GoTo", CodeGoTo, 0, 1, false)
	define("If", CodeIf, 1, 1, false)
	define("Return", CodeReturn, 0, 0, false)
	define("RunModelFunction", RunModelFunctionBase, 1, 0, false)

	// Representative world-map opcodes exercised by the worked examples
	// and the parser/assembler/disassembler test fixtures.
	define("WriteTo", CodeWriteTo, 2, 0, false)
	define("LoadModel", CodeLoadModel, 1, 0, false)
	define("SetEntityDirection", CodeSetEntityDir, 1, 0, false)
	define("SetEntityAltitudeOffset", CodeSetAltOffset, 1, 0, false)
	define("PlayLayerAnimation", CodePlayLayerAnim, 1, 0, false)
	define("GetDistanceToModel", 0x19, 1, 0, true)
	define("GetDistanceToPoint", 0x18, 1, 0, true)
	define("PlaySound", CodePlaySound, 1, 0, false)
	define("PlayerControlsEnabled", CodePlayerControls, 1, 0, false)
	define("SetWindowMessage", 0x0a, 1, 0, false)
	define(CodeFieldJumpMnemonic, CodeFieldJump, 2, 0, false)
}

// CodeFieldJumpMnemonic names the opcode whose second stack argument gets the
// FieldIDs peephole substitution in the disassembler (spec §4.4 step 3).
const CodeFieldJumpMnemonic = "EnterFieldLevel"

// ByCode returns the descriptor for a numeric opcode, expanding the
// RunModelFunction pseudo-range and reporting whether the code is known.
func ByCode(code uint16) (Op, bool) {
	if code >= RunModelFunctionBase && code < RunModelFunctionEnd {
		op, _ := byCode[RunModelFunctionBase]
		return op, true
	}
	op, ok := byCode[code]
	return op, ok
}

// ByMnemonic returns the descriptor for a mnemonic, and whether it is known.
func ByMnemonic(mnemonic string) (Op, bool) {
	op, ok := byMnemonic[mnemonic]
	return op, ok
}
