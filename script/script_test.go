package script_test

import (
	"testing"

	"github.com/ff7tools/terraform/opcode"
	"github.com/ff7tools/terraform/script"
)

func TestWriteReadRoundTrip(t *testing.T) {
	funcs := []script.Function{
		{
			Ident:  script.PackIdent(script.System, 2, 0),
			Offset: 1,
			Code:   []uint16{opcode.CodeValue, 5, opcode.CodeReturn},
		},
		{
			Ident:  script.PackIdent(script.Model, 3, 1),
			Offset: 4,
			Code:   []uint16{opcode.CodeReturn},
		},
	}

	data, err := script.Write(funcs, opcode.CodeReturn)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	c, err := script.Read(data)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if len(c.Index) != 2 {
		t.Fatalf("expected 2 index entries, got %d", len(c.Index))
	}
	if c.Index[0].Kind != script.System || c.Index[0].SystemID != 2 || c.Index[0].Offset != 1 {
		t.Errorf("unexpected first entry: %+v", c.Index[0])
	}
	if c.Index[1].Kind != script.Model || c.Index[1].ModelID != 3 || c.Index[1].FunctionID != 1 || c.Index[1].Offset != 4 {
		t.Errorf("unexpected second entry: %+v", c.Index[1])
	}

	if c.Code[1] != opcode.CodeValue {
		t.Errorf("expected function 0's code to start at word 1 of the code area, got %v", c.Code[:4])
	}
}

func TestReadRejectsTruncatedContainer(t *testing.T) {
	_, err := script.Read(make([]byte, 0x10))
	if err == nil {
		t.Fatal("expected an error for a truncated container")
	}
}

func TestDuplicateOffsetSharing(t *testing.T) {
	funcs := []script.Function{
		{Ident: script.PackIdent(script.System, 1, 0), Offset: 1, Code: []uint16{opcode.CodeReturn}},
		{Ident: script.PackIdent(script.System, 2, 0), Offset: 1},
	}
	data, err := script.Write(funcs, opcode.CodeReturn)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	c, err := script.Read(data)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if c.Index[0].Offset != c.Index[1].Offset {
		t.Fatalf("expected both entries to share offset %d, got %d and %d",
			c.Index[0].Offset, c.Index[0].Offset, c.Index[1].Offset)
	}
}
