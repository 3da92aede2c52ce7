package driver_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ff7tools/terraform/archive"
	"github.com/ff7tools/terraform/assembler"
	"github.com/ff7tools/terraform/driver"
	"github.com/ff7tools/terraform/fieldtext"
	"github.com/ff7tools/terraform/opcode"
	"github.com/ff7tools/terraform/script"
)

// buildArchive assembles a tiny fixture archive: one system function per
// script file (plus a duplicate of it in wm0.ev), and two messages.
func buildArchive(t *testing.T, dir string) {
	t.Helper()

	code, err := assembler.Assemble("LoadModel(0)\nEnd", 1)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	names := []string{"wm0.ev", "wm2.ev", "wm3.ev"}
	var entries []archive.Entry
	for i, name := range names {
		funcs := []script.Function{
			{Ident: script.PackIdent(script.System, i+1, 0), Offset: 1, Code: code},
		}
		if name == "wm0.ev" {
			funcs = append(funcs, script.Function{Ident: script.PackIdent(script.System, 9, 0), Offset: 1})
		}
		data, err := script.Write(funcs, opcode.CodeReturn)
		if err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		entries = append(entries, archive.Entry{Name: name, Data: data})
	}

	mesData, err := script.WriteMessages([]string{"Hello", "World"}, fieldtext.Encode)
	if err != nil {
		t.Fatalf("WriteMessages failed: %v", err)
	}
	entries = append(entries, archive.Entry{Name: "mes", Data: mesData})

	if err := archive.Pack(dir, entries); err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
}

func TestExtractThenCompileRoundTrip(t *testing.T) {
	archiveDir := filepath.Join(t.TempDir(), "archive")
	buildArchive(t, archiveDir)

	outDir := filepath.Join(t.TempDir(), "extracted")
	if err := driver.Extract(archiveDir, outDir, false); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	messagesText, err := os.ReadFile(filepath.Join(outDir, "messages.txt"))
	if err != nil {
		t.Fatalf("reading messages.txt: %v", err)
	}
	if !strings.Contains(string(messagesText), "---[ MESSAGE ID 0:") || !strings.Contains(string(messagesText), "Hello") {
		t.Errorf("unexpected messages.txt content:\n%s", messagesText)
	}

	wm0Files, err := os.ReadDir(filepath.Join(outDir, "wm0.ev"))
	if err != nil {
		t.Fatalf("reading wm0.ev dir: %v", err)
	}
	if len(wm0Files) != 2 {
		t.Fatalf("expected 2 function files in wm0.ev (one real, one duplicate stub), got %d", len(wm0Files))
	}

	var sawDuplicateStub bool
	for _, f := range wm0Files {
		if strings.Contains(f.Name(), "-") {
			sawDuplicateStub = true
			data, err := os.ReadFile(filepath.Join(outDir, "wm0.ev", f.Name()))
			if err != nil {
				t.Fatalf("reading stub: %v", err)
			}
			if !strings.Contains(string(data), "Dummy function, duplicate of function #000") {
				t.Errorf("unexpected stub content: %q", data)
			}
		}
	}
	if !sawDuplicateStub {
		t.Fatal("expected one of wm0.ev's files to be a duplicate stub")
	}

	recompiledArchive := filepath.Join(t.TempDir(), "recompiled")
	if err := driver.Compile(outDir, recompiledArchive); err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	entries, err := archive.Load(recompiledArchive)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	wm0, err := archive.Find(entries, "wm0.ev")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	c, err := script.Read(wm0.Data)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(c.Index) != 2 {
		t.Fatalf("expected 2 index entries in recompiled wm0.ev, got %d", len(c.Index))
	}
	if c.Index[0].Offset != c.Index[1].Offset {
		t.Errorf("expected the duplicate to still share its original offset: %+v", c.Index)
	}

	mes, err := archive.Find(entries, "mes")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	messages, err := script.ReadMessages(mes.Data, fieldtext.Decode)
	if err != nil {
		t.Fatalf("ReadMessages failed: %v", err)
	}
	if len(messages) != 2 || messages[0] != "Hello" || messages[1] != "World" {
		t.Errorf("unexpected recompiled messages: %#v", messages)
	}
}
