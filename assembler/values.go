package assembler

import (
	"fmt"

	"github.com/ff7tools/terraform/constants"
	"github.com/ff7tools/terraform/opcode"
	"github.com/ff7tools/terraform/parser"
	"github.com/ff7tools/terraform/terrerr"
)

// binaryOpCode maps an infix operator spelling to the opcode code that
// implements it. Kept separate from opcode.InfixToken (which goes the other
// direction, for the disassembler) to avoid building a throwaway reverse map
// on every assemble call.
var binaryOpCode = map[string]uint16{
	"*":   opcode.CodeMul,
	"+":   opcode.CodeAdd,
	"-":   opcode.CodeSub,
	"<<":  opcode.CodeShiftLeft,
	">>":  opcode.CodeShiftRight,
	"<":   opcode.CodeIsLessThan,
	">":   opcode.CodeIsGreaterThan,
	"<=":  opcode.CodeIsLessOrEqual,
	">=":  opcode.CodeIsGreaterOrEqual,
	"==":  opcode.CodeIsEqual,
	"&":   opcode.CodeBitAnd,
	"|":   opcode.CodeBitOr,
	"AND": opcode.CodeLogicAnd,
	"OR":  opcode.CodeLogicOr,
}

// resolveConst evaluates an expression that must be known at assemble time:
// a literal, a named constant, or a negation of either. It is used for the
// arguments of the leaf opcodes, which bake their argument straight into an
// inline word rather than pushing it onto the stack.
func resolveConst(e parser.Expr) (int, error) {
	switch v := e.(type) {
	case *parser.IntLiteral:
		return v.Value, nil
	case *parser.VarRef:
		n, ok := constants.ResolveName(v.Name)
		if !ok {
			return 0, fmt.Errorf("unknown constant $%s: %w", v.Name, terrerr.ValueResolution)
		}
		return n, nil
	case *parser.Unary:
		if v.Op != "-" {
			return 0, fmt.Errorf("unsupported unary operator %q in constant expression: %w", v.Op, terrerr.ValueResolution)
		}
		n, err := resolveConst(v.Operand)
		return -n, err
	default:
		return 0, fmt.Errorf("expected a constant, found a computed expression: %w", terrerr.ValueResolution)
	}
}

// leafEncoder lowers a leaf opcode call's arguments directly into the
// inline word(s) that follow its opcode word, bypassing the stack entirely.
type leafEncoder func(args []parser.Expr) ([]uint16, error)

var leafEncoders = map[string]leafEncoder{
	"Value":       encodeDirect(opcode.CodeValue, 1),
	"SpecialByte": encodeDirect(opcode.CodeSpecialByte, 1),
	"SpecialWord": encodeDirect(opcode.CodeSpecialWord, 1),
	"SpecialBit":  encodeDirect(opcode.CodeSpecialBit, 1),
	"TempByte":    encodeDirect(opcode.CodeTempByte, 1),
	"SavemapByte": encodeSavemap(opcode.CodeSavemapByte),
	"SavemapWord": encodeSavemap(opcode.CodeSavemapWord),
	"SavemapBit":  encodeSavemapBit,
}

// encodeDirect builds a leaf encoder whose single argument is resolved to a
// constant and placed verbatim as the inline word.
func encodeDirect(code uint16, arity int) leafEncoder {
	return func(args []parser.Expr) ([]uint16, error) {
		if len(args) != arity {
			return nil, fmt.Errorf("opcode 0x%04x takes %d argument(s), got %d", code, arity, len(args))
		}
		n, err := resolveConst(args[0])
		if err != nil {
			return nil, err
		}
		return []uint16{code, uint16(n)}, nil
	}
}

// encodeSavemap builds a leaf encoder for SavemapByte/SavemapWord: a single
// absolute savemap address, stored as a bit offset from the savemap base.
func encodeSavemap(code uint16) leafEncoder {
	return func(args []parser.Expr) ([]uint16, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("opcode 0x%04x takes 1 argument, got %d", code, len(args))
		}
		addr, err := resolveConst(args[0])
		if err != nil {
			return nil, err
		}
		return []uint16{code, uint16((addr - opcode.SavemapBase) * 8)}, nil
	}
}

// encodeSavemapBit encodes SavemapBit(addr, bit) into a single bit-indexed
// inline word, per spec.md §3's savemap addressing scheme.
func encodeSavemapBit(args []parser.Expr) ([]uint16, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("SavemapBit takes 2 arguments, got %d", len(args))
	}
	addr, err := resolveConst(args[0])
	if err != nil {
		return nil, err
	}
	bit, err := resolveConst(args[1])
	if err != nil {
		return nil, err
	}
	return []uint16{opcode.CodeSavemapBit, uint16((addr-opcode.SavemapBase)*8 + bit)}, nil
}
