// Package driver orchestrates the end-to-end extract and compile flows,
// wiring the container codec, disassembler, parser and assembler to the
// archive and field-text collaborators. It is the one package that
// touches the filesystem directly.
package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ff7tools/terraform/archive"
	"github.com/ff7tools/terraform/assembler"
	"github.com/ff7tools/terraform/disassembler"
	"github.com/ff7tools/terraform/fieldtext"
	"github.com/ff7tools/terraform/opcode"
	"github.com/ff7tools/terraform/script"
	"github.com/ff7tools/terraform/terrerr"
)

// scriptEntries names the three script files an archive carries, in the
// fixed order terraform.py always processes them.
var scriptEntries = []string{"wm0.ev", "wm2.ev", "wm3.ev"}

const messagesEntryName = "mes"
const messagesFileName = "messages.txt"

// Extract reads archivePath and writes one directory per script entry
// plus messages.txt into outDir. verbose adds a hex-word comment above
// every rendered instruction.
func Extract(archivePath, outDir string, verbose bool) error {
	entries, err := archive.Load(archivePath)
	if err != nil {
		return err
	}

	mesEntry, err := archive.Find(entries, messagesEntryName)
	if err != nil {
		return fmt.Errorf("driver: %w: %w", terrerr.MalformedContainer, err)
	}
	messages, err := script.ReadMessages(mesEntry.Data, fieldtext.Decode)
	if err != nil {
		return fmt.Errorf("driver: decoding %s: %w", messagesEntryName, err)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("driver: creating %s: %w: %v", outDir, terrerr.IO, err)
	}
	if err := writeMessagesFile(filepath.Join(outDir, messagesFileName), messages); err != nil {
		return err
	}

	for _, name := range scriptEntries {
		entry, err := archive.Find(entries, name)
		if err != nil {
			return err
		}
		container, err := script.Read(entry.Data)
		if err != nil {
			return fmt.Errorf("driver: reading %s: %w", name, err)
		}
		functions, err := disassembler.Disassemble(container)
		if err != nil {
			return fmt.Errorf("driver: disassembling %s: %w", name, err)
		}

		dir := filepath.Join(outDir, name)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("driver: creating %s: %w: %v", dir, terrerr.IO, err)
		}
		for _, fn := range functions {
			var text string
			if fn.Duplicate {
				text = disassembler.DuplicateStub(fn)
			} else {
				text = disassembler.Render(fn, disassembler.RenderOptions{Verbose: verbose, Messages: messages})
			}
			path := filepath.Join(dir, fileName(fn))
			if err := os.WriteFile(path, []byte(text), 0644); err != nil {
				return fmt.Errorf("driver: writing %s: %w: %v", path, terrerr.IO, err)
			}
		}
	}
	return nil
}

// sourceFile is one function file found inside a script's input
// directory, decoded back into its original index-entry identity.
type sourceFile struct {
	name   string
	parsed parsedName
}

// Compile reads inputDir (the layout Extract produces) and writes a
// freshly packed archive to archivePath.
func Compile(inputDir, archivePath string) error {
	messages, err := readMessagesFile(filepath.Join(inputDir, messagesFileName))
	if err != nil {
		return err
	}
	mesData, err := script.WriteMessages(messages, fieldtext.Encode)
	if err != nil {
		return fmt.Errorf("driver: encoding %s: %w", messagesFileName, err)
	}

	entries := []archive.Entry{{Name: messagesEntryName, Data: mesData}}

	for _, name := range scriptEntries {
		dir := filepath.Join(inputDir, name)
		data, err := compileScript(dir)
		if err != nil {
			return fmt.Errorf("driver: compiling %s: %w", name, err)
		}
		entries = append(entries, archive.Entry{Name: name, Data: data})
	}

	if err := archive.Pack(archivePath, entries); err != nil {
		return err
	}
	return nil
}

func compileScript(dir string) ([]byte, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w: %v", dir, terrerr.IO, err)
	}

	var files []sourceFile
	for _, it := range items {
		if it.IsDir() {
			continue
		}
		pn, err := parseFileName(it.Name())
		if err != nil {
			return nil, err
		}
		files = append(files, sourceFile{name: it.Name(), parsed: pn})
	}

	sort.Slice(files, func(i, j int) bool {
		gi := groupOrder(script.Kind(files[i].parsed.Ident >> 14))
		gj := groupOrder(script.Kind(files[j].parsed.Ident >> 14))
		if gi != gj {
			return gi < gj
		}
		return files[i].name < files[j].name
	})

	// Pass 1: assemble every non-duplicate file and assign it an offset, in
	// the group-sorted order. Duplicates are skipped here: since their
	// target index can belong to a different kind group, it may sort
	// after them, so their offset can't always be resolved on this pass.
	offsetByIndex := make(map[int]uint16)
	codeByIndex := make(map[int][]uint16)
	offset := uint16(1)

	for _, f := range files {
		if f.parsed.IsDuplicate {
			continue
		}
		src, err := os.ReadFile(filepath.Join(dir, f.name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w: %v", f.name, terrerr.IO, err)
		}
		code, err := assembler.Assemble(string(src), int(offset))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}

		offsetByIndex[f.parsed.Index] = offset
		codeByIndex[f.parsed.Index] = code
		offset += uint16(len(code))
	}

	// Pass 2: every non-duplicate's offset is now known, so duplicates can
	// be resolved regardless of where they sorted relative to their target.
	var funcs []script.Function
	for _, f := range files {
		if f.parsed.IsDuplicate {
			orig, ok := offsetByIndex[f.parsed.DuplicateOf]
			if !ok {
				return nil, fmt.Errorf("%s: duplicate of unknown function #%03d: %w", f.name, f.parsed.DuplicateOf, terrerr.MalformedContainer)
			}
			funcs = append(funcs, script.Function{Ident: f.parsed.Ident, Offset: orig})
			continue
		}
		funcs = append(funcs, script.Function{
			Ident:  f.parsed.Ident,
			Offset: offsetByIndex[f.parsed.Index],
			Code:   codeByIndex[f.parsed.Index],
		})
	}

	return script.Write(funcs, opcode.CodeReturn)
}
