// Package assembler lowers a parsed function body into the 16-bit word
// stream the interpreter executes, mirroring the layout disassembler
// recovers from compiled scripts.
package assembler

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/ff7tools/terraform/opcode"
	"github.com/ff7tools/terraform/parser"
	"github.com/ff7tools/terraform/terrerr"
)

var unknownOpcodeRE = regexp.MustCompile(`^Unknown([0-9a-fA-F]+)$`)

// Assemble compiles one function's source text into its word stream.
// baseOffset is the word offset, relative to the start of the code area
// (not to the start of the container), at which its first word will be
// placed; If/GoTo jump targets are encoded as baseOffset plus the target's
// position within this function.
func Assemble(src string, baseOffset int) ([]uint16, error) {
	stmts, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return assembleStatements(stmts, baseOffset)
}

type gotoPatch struct {
	index int
	label string
}

// assembleStatements walks a function body once, emitting words in order
// and resolving If-block jump targets as each EndIf closes its block.
// GoTo targets are patched in a second, trivial pass once every label's
// position is known, since a GoTo may reference a label defined later.
func assembleStatements(stmts []*parser.Statement, baseOffset int) ([]uint16, error) {
	var words []uint16
	var ifStack []int
	var gotoPatches []gotoPatch
	labelPC := map[string]int{}
	depth := 0
	first := true

	for _, s := range stmts {
		if s.IsLabel() {
			labelPC[s.Label] = len(words)
			continue
		}

		// A ResetStack precedes every statement but the function's first,
		// except End and EndIf (never preceded by one) and a GoTo nested
		// inside an If body (never preceded by one either; see DESIGN.md).
		if !first && !s.IsEnd && !s.EndIf && !(s.IsGoto() && depth > 0) {
			words = append(words, opcode.CodeResetStack)
		}
		first = false

		switch {
		case s.IsIf():
			cond, err := emitExpr(s.If)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", s.Line, err)
			}
			words = append(words, cond...)
			words = append(words, opcode.CodeIf)
			ifStack = append(ifStack, len(words))
			words = append(words, 0)
			depth++

		case s.EndIf:
			if len(ifStack) == 0 {
				return nil, fmt.Errorf("line %d: EndIf without a matching If: %w", s.Line, terrerr.UnmatchedEndIf)
			}
			top := ifStack[len(ifStack)-1]
			ifStack = ifStack[:len(ifStack)-1]
			words[top] = uint16(baseOffset + len(words))
			depth--

		case s.IsEnd:
			words = append(words, opcode.CodeReturn)

		case s.IsGoto():
			words = append(words, opcode.CodeGoTo)
			gotoPatches = append(gotoPatches, gotoPatch{index: len(words), label: s.GotoLabel})
			words = append(words, 0)

		case s.IsCall():
			call, err := emitExpr(s.Call)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", s.Line, err)
			}
			words = append(words, call...)

		default:
			return nil, fmt.Errorf("line %d: empty statement", s.Line)
		}
	}

	if len(ifStack) != 0 {
		return nil, fmt.Errorf("%d unclosed If block(s): %w", len(ifStack), terrerr.UnmatchedEndIf)
	}

	for _, p := range gotoPatches {
		target, ok := labelPC[p.label]
		if !ok {
			return nil, fmt.Errorf("GoTo references undefined label @%s: %w", p.label, terrerr.UnresolvedLabel)
		}
		words[p.index] = uint16(baseOffset + target)
	}

	return words, nil
}

// emitExpr lowers an expression into the words that push its value onto
// the interpreter's evaluation stack.
func emitExpr(e parser.Expr) ([]uint16, error) {
	switch v := e.(type) {
	case *parser.IntLiteral:
		return []uint16{opcode.CodeValue, uint16(v.Value)}, nil

	case *parser.VarRef:
		n, err := resolveConst(v)
		if err != nil {
			return nil, err
		}
		return []uint16{opcode.CodeValue, uint16(n)}, nil

	case *parser.Unary:
		if v.Op != "-" {
			return nil, fmt.Errorf("unsupported unary operator %q", v.Op)
		}
		operand, err := emitExpr(v.Operand)
		if err != nil {
			return nil, err
		}
		return append(operand, opcode.CodeNeg), nil

	case *parser.Binary:
		code, ok := binaryOpCode[v.Op]
		if !ok {
			return nil, fmt.Errorf("unsupported operator %q", v.Op)
		}
		left, err := emitExpr(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := emitExpr(v.Right)
		if err != nil {
			return nil, err
		}
		return append(append(left, right...), code), nil

	case *parser.Call:
		return emitCall(v)

	default:
		return nil, fmt.Errorf("unsupported expression node %T", e)
	}
}

// emitCall lowers a single opcode invocation: a raw-word escape hatch, one
// of the stack-bypassing leaf opcodes, the RunModelFunction pseudo-range, or
// a regular opcode whose arguments are each pushed onto the stack in order.
func emitCall(c *parser.Call) ([]uint16, error) {
	if m := unknownOpcodeRE.FindStringSubmatch(c.Mnemonic); m != nil {
		if len(c.Args) != 0 {
			return nil, fmt.Errorf("%s takes no arguments", c.Mnemonic)
		}
		v, err := strconv.ParseUint(m[1], 16, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", c.Mnemonic, err)
		}
		return []uint16{uint16(v)}, nil
	}

	if enc, ok := leafEncoders[c.Mnemonic]; ok {
		return enc(c.Args)
	}

	if c.Mnemonic == "RunModelFunction" {
		if len(c.Args) != 2 {
			return nil, fmt.Errorf("RunModelFunction takes 2 arguments, got %d", len(c.Args))
		}
		model, err := emitExpr(c.Args[0])
		if err != nil {
			return nil, err
		}
		funcID, err := resolveConst(c.Args[1])
		if err != nil {
			return nil, err
		}
		if funcID < 0 || opcode.RunModelFunctionBase+funcID >= opcode.RunModelFunctionEnd {
			return nil, fmt.Errorf("RunModelFunction function id %d out of range", funcID)
		}
		return append(model, uint16(opcode.RunModelFunctionBase+funcID)), nil
	}

	op, ok := opcode.ByMnemonic(c.Mnemonic)
	if !ok {
		return nil, fmt.Errorf("unknown opcode %s: %w", c.Mnemonic, terrerr.UnknownOpcode)
	}
	if len(c.Args) != op.StackArity {
		return nil, fmt.Errorf("%s takes %d argument(s), got %d", c.Mnemonic, op.StackArity, len(c.Args))
	}

	var words []uint16
	for _, a := range c.Args {
		w, err := emitExpr(a)
		if err != nil {
			return nil, err
		}
		words = append(words, w...)
	}
	return append(words, op.Code), nil
}
