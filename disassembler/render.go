package disassembler

import (
	"fmt"
	"strings"

	"github.com/ff7tools/terraform/constants"
	"github.com/ff7tools/terraform/opcode"
	"github.com/ff7tools/terraform/script"
)

// RenderOptions controls textual rendering of a disassembled function.
type RenderOptions struct {
	// Verbose adds a "# <pc>: <hex words>" comment above every real
	// instruction, per spec.md §6's "-v" flag.
	Verbose bool
	// Messages supplies message text for the SetWindowMessage preview
	// comment; may be nil if unavailable.
	Messages []string
}

// Render produces the textual assembly for one disassembled function,
// following spec.md §3/§6's on-disk format: a header comment block, two
// spaces of indentation per nesting level, and one statement per line.
func Render(fn Function, opts RenderOptions) string {
	var b strings.Builder
	writeHeader(&b, fn)

	for _, inst := range fn.Instructions {
		indent := strings.Repeat("  ", max(inst.Indent, 0))

		if inst.Raw != nil && indexOf(fn.Labels, inst.PC) >= 0 {
			fmt.Fprintf(&b, "%s@LABEL_%d\n", indent, indexOf(fn.Labels, inst.PC)+1)
		}

		if inst.Code == opcode.CodeResetStack {
			continue // noisy, skipped per spec.md §4.4/original dump_functions
		}

		var text string
		switch inst.Mnemonic {
		case "If":
			text = fmt.Sprintf("%sIf %s Then", indent, firstOrEmpty(inst.Params))
		case "EndIf":
			text = indent + "EndIf"
		case "Return":
			text = indent + "End"
		case "GoTo":
			text = fmt.Sprintf("%sGoTo @%s", indent, firstOrEmpty(inst.Params))
		default:
			text = fmt.Sprintf("%s%s(%s)", indent, inst.Mnemonic, strings.Join(inst.Params, ", "))
			if inst.Mnemonic == "SetWindowMessage" && len(inst.Params) > 0 {
				if preview, ok := messagePreview(opts.Messages, inst.Params[0]); ok {
					text += " # " + preview
				}
			}
		}

		if opts.Verbose && inst.Raw != nil {
			fmt.Fprintf(&b, "%s# %04x:%s\n", indent, inst.PC, hexWords(inst.Raw))
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}

	return b.String()
}

func writeHeader(b *strings.Builder, fn Function) {
	switch fn.Entry.Kind {
	case script.System:
		fmt.Fprintf(b, "# System Function ID %02d\n", fn.Entry.SystemID)
	case script.Model:
		name := "Unknown"
		if n, ok := constants.Models[fn.Entry.ModelID]; ok {
			name = n
		}
		fmt.Fprintf(b, "# Model ID %02d (%s), Function ID %02d\n", fn.Entry.ModelID, name, fn.Entry.FunctionID)
	case script.Mesh:
		fmt.Fprintf(b, "# Mesh Function ID %d, Mesh Type %d\n", fn.Entry.MeshCoords, fn.Entry.WalkmeshType)
	}
	offset := int(fn.Entry.Offset)*2 + 0x400
	fmt.Fprintf(b, "# Start offset: 0x%04x\n\n", offset)
}

// DuplicateStub renders the comment-only body written for a function whose
// code offset duplicates an earlier one.
func DuplicateStub(fn Function) string {
	return fmt.Sprintf("# Dummy function, duplicate of function #%03d", fn.DuplicateIndex)
}

func hexWords(words []uint16) string {
	var b strings.Builder
	for _, w := range words {
		fmt.Fprintf(&b, " %02x%02x", byte(w), byte(w>>8))
	}
	return b.String()
}

func firstOrEmpty(params []string) string {
	if len(params) == 0 {
		return ""
	}
	return params[0]
}

func messagePreview(messages []string, idParam string) (string, bool) {
	idx, ok := parseDecimal(idParam)
	if !ok || idx < 0 || idx >= len(messages) {
		return "", false
	}
	text := strings.ReplaceAll(messages[idx], "\n", " ")
	if len(text) > 50 {
		text = text[:50] + " ..."
	}
	return text, true
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
