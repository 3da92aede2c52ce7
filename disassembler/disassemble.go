package disassembler

import (
	"fmt"

	"github.com/ff7tools/terraform/constants"
	"github.com/ff7tools/terraform/opcode"
	"github.com/ff7tools/terraform/script"
	"github.com/ff7tools/terraform/terrerr"
)

// Disassemble walks every indexed function in order and folds its bytecode
// into Functions. Functions that share an earlier function's code offset
// are reported as duplicates (spec.md §4.4/§9: "fingerprint of duplicate
// entries... offset only, not content").
func Disassemble(c *script.Container) ([]Function, error) {
	seenOffsets := make(map[uint16]int)
	functions := make([]Function, 0, len(c.Index))

	for fileID, entry := range c.Index {
		if firstID, ok := seenOffsets[entry.Offset]; ok {
			functions = append(functions, Function{
				Entry:          entry,
				StartOffset:    fileID,
				Duplicate:      true,
				DuplicateIndex: firstID,
			})
			continue
		}
		seenOffsets[entry.Offset] = fileID

		fn, err := disassembleOne(c.Code, int(entry.Offset))
		if err != nil {
			return nil, fmt.Errorf("disassembler: function #%d at offset 0x%x: %w", fileID, entry.Offset, err)
		}
		fn.Entry = entry
		fn.StartOffset = fileID
		functions = append(functions, *fn)
	}

	return functions, nil
}

// pop removes and returns the last element of the pseudo-stack, or false
// if the stack is empty.
func pop(stack *[]Instruction) (Instruction, bool) {
	s := *stack
	if len(s) == 0 {
		return Instruction{}, false
	}
	last := s[len(s)-1]
	*stack = s[:len(s)-1]
	return last, true
}

func disassembleOne(code []uint16, start int) (*Function, error) {
	var stack []Instruction
	var labels []int
	var pendingJumps []int
	indent := 0
	pos := start

	for {
		if pos >= len(code) {
			return nil, fmt.Errorf("ran off the end of the code area before a Return: %w", terrerr.MalformedContainer)
		}
		opcodePC := pos
		word := code[pos]
		pos++
		raw := []uint16{word}

		var op opcode.Op
		var known bool
		if word >= opcode.RunModelFunctionBase && word < opcode.RunModelFunctionEnd {
			op, known = opcode.ByCode(opcode.RunModelFunctionBase)
		} else {
			op, known = opcode.ByCode(word)
		}
		if !known {
			stack = append(stack, Instruction{
				Mnemonic: fmt.Sprintf("Unknown%04x", word),
				PC:       opcodePC,
				Indent:   indent,
				Raw:      raw,
			})
			continue
		}

		var params []string
		if op.StackArity > 0 {
			params = make([]string, 0, op.StackArity)
			for i := 0; i < op.StackArity; i++ {
				popped, ok := pop(&stack)
				if !ok {
					return nil, fmt.Errorf("stack underflow decoding %s at pc %d", op.Mnemonic, opcodePC)
				}
				raw = append(append([]uint16{}, popped.Raw...), raw...)

				applyEqualityPeephole(op.Code, popped, &params)
				params = append(params, renderOperand(word, popped, i))
			}
			reverseStrings(params)
		}

		if op.InlineArity > 0 {
			for i := 0; i < op.InlineArity; i++ {
				if pos >= len(code) {
					return nil, fmt.Errorf("truncated inline argument for %s at pc %d: %w", op.Mnemonic, opcodePC, terrerr.MalformedContainer)
				}
				w := code[pos]
				raw = append(raw, w)

				switch op.Code {
				case opcode.CodeSavemapBit:
					bit := w & 7
					addr := int(w>>3) + opcode.SavemapBase
					params = append(params, savemapParam(addr))
					params = append(params, fmt.Sprintf("%d", bit))
				case opcode.CodeSavemapByte, opcode.CodeSavemapWord:
					addr := int(w>>3) + opcode.SavemapBase
					params = append(params, savemapParam(addr))
				case opcode.CodeSpecialByte, opcode.CodeSpecialWord, opcode.CodeSpecialBit:
					if name, ok := constants.SpecialVars[int(w)]; ok {
						params = append(params, "$"+name)
					} else {
						params = append(params, fmt.Sprintf("%d", w))
					}
				case opcode.CodeGoTo:
					labels = appendLabel(labels, int(w))
					params = append(params, fmt.Sprintf("LABEL_%d", indexOf(labels, int(w))+1))
				case opcode.CodeIf:
					pendingJumps = append(pendingJumps, int(w))
					pos++
					continue
				default:
					params = append(params, fmt.Sprintf("%d", w))
				}
				pos++
			}
		}

		if word >= opcode.RunModelFunctionBase && word < opcode.RunModelFunctionEnd {
			params = append(params, fmt.Sprintf("%d", word-opcode.RunModelFunctionBase))
		}

		stack = append(stack, Instruction{
			Mnemonic: op.Mnemonic,
			Params:   params,
			Code:     word,
			PC:       opcodePC,
			Indent:   indent,
			Raw:      raw,
		})

		for {
			idx := indexOf(pendingJumps, pos)
			if idx < 0 {
				break
			}
			pendingJumps = append(pendingJumps[:idx], pendingJumps[idx+1:]...)
			indent--
			stack = append(stack, Instruction{Mnemonic: "EndIf", PC: pos, Indent: indent, Raw: nil})
		}

		if op.Code == opcode.CodeIf {
			indent++
		}

		if op.Code == opcode.CodeReturn {
			break
		}
	}

	return &Function{Instructions: stack, Labels: labels}, nil
}

func savemapParam(addr int) string {
	if name, ok := constants.SavemapVars[addr]; ok {
		return "$" + name
	}
	return fmt.Sprintf("0x%04X", addr)
}

func appendLabel(labels []int, target int) []int {
	if indexOf(labels, target) >= 0 {
		return labels
	}
	return append(labels, target)
}

func indexOf(haystack []int, needle int) int {
	for i, v := range haystack {
		if v == needle {
			return i
		}
	}
	return -1
}

func reverseStrings(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
