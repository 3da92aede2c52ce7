package assembler_test

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/ff7tools/terraform/assembler"
	"github.com/ff7tools/terraform/terrerr"
)

// assembleAndMatchHex assembles src and checks the resulting words against
// an expected little-endian hex byte sequence.
func assembleAndMatchHex(t *testing.T, name, src, expectedHex string, baseOffset int) {
	t.Helper()

	expectedHex = strings.ToLower(strings.Join(strings.Fields(expectedHex), ""))
	expected, err := hex.DecodeString(expectedHex)
	if err != nil {
		t.Fatalf("[%s] invalid expected hex string: %v", name, err)
	}

	words, err := assembler.Assemble(src, baseOffset)
	if err != nil {
		t.Fatalf("[%s] failed to assemble:\n%s\nerror: %v", name, src, err)
	}
	got := make([]byte, len(words)*2)
	for i, w := range words {
		binary.LittleEndian.PutUint16(got[i*2:], w)
	}

	if len(got) != len(expected) {
		t.Fatalf("[%s] expected %d bytes, got %d\nexpected: % x\ngot:      % x",
			name, len(expected), len(got), expected, got)
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Fatalf("[%s] mismatch at byte %d\nexpected: % x\ngot:      % x", name, i, expected, got)
		}
	}
}

func TestSimpleStatements(t *testing.T) {
	tests := []struct{ name, src, hex string }{
		{"End", "End", "0302"},
		{"PlayLayerAnimation", "PlayLayerAnimation(0x06)", "1001 0600 4a03"},
		{"NegativeArg", "SetEntityAltitudeOffset(-400)", "1001 9001 1500 0b03"},
		{"Comment", "LoadModel(0) # loads a model", "1001 0000 0003"},
		{"NestedLeaf", "WriteTo(TempByte(2), SpecialByte(15))", "1901 0200 1b01 0f00 e000"},
	}
	for _, tc := range tests {
		assembleAndMatchHex(t, tc.name, tc.src, tc.hex, 0)
	}
}

func TestRunModelFunction(t *testing.T) {
	tests := []struct{ name, src, hex string }{
		{"ByConstant", "RunModelFunction($Highwind, 20)", "1001 0300 1802"},
		{"ByExpression", "RunModelFunction(SpecialByte($PlayerEntityModelId), 29)", "1b01 0800 2102"},
	}
	for _, tc := range tests {
		assembleAndMatchHex(t, tc.name, tc.src, tc.hex, 0)
	}
}

func TestConstantsAndMath(t *testing.T) {
	assembleAndMatchHex(t, "AddImmediate",
		"SetEntityDirection(SpecialByte($EntityDirection) + 128)",
		"1b01 0400 1001 8000 4000 0403", 0)

	assembleAndMatchHex(t, "SubSavemapByte",
		"WriteTo(SavemapByte(0x0C14), SavemapByte(0x0C14) - 1)",
		"1801 8003 1801 8003 1001 0100 4100 e000", 0)

	assembleAndMatchHex(t, "ShiftPrecedence",
		"SetEntityAltitudeOffset(SavemapWord(0x0C16) - 3685 >> 1)",
		"1c01 9003 1001 650e 4100 1001 0100 5100 0b03", 0)

	assembleAndMatchHex(t, "MulThenShift",
		"WriteTo(TempByte(0), SpecialByte($Random8BitNumber) * 9 >> 8)",
		"1901 0000 1b01 1000 1001 0900 3000 1001 0800 5100 e000", 0)

	assembleAndMatchHex(t, "SavemapBit",
		"WriteTo(SavemapBit(0x0F29, 3), 1)",
		"1401 2b1c 1001 0100 e000", 0)
}

func TestGoto(t *testing.T) {
	tests := []struct{ name, src, hex string }{
		{
			"BackwardLoop",
			"@LABEL_1\nLoadModel(0)\nGoTo @LABEL_1",
			"1001 0000 0003 0001 0002 0000",
		},
		{
			"MidFunctionLabel",
			"LoadModel(0)\n@LABEL_1\nLoadModel(1)\nGoTo @LABEL_1",
			"1001 0000 0003 0001 1001 0100 0003 0001 0002 0300",
		},
		{
			"ForwardJump",
			"GoTo @LABEL_1\nLoadModel(0)\n@LABEL_1\nLoadModel(1)",
			"0002 0600 0001 1001 0000 0003 0001 1001 0100 0003",
		},
	}
	for _, tc := range tests {
		assembleAndMatchHex(t, tc.name, tc.src, tc.hex, 0)
	}
}

func TestConditions(t *testing.T) {
	assembleAndMatchHex(t, "UnknownPassthrough",
		"If GetDistanceToModel($GoldSaucer) <= 100 Then\nUnknown30d()\nEndIf",
		"1001 0e00 1900 1001 6400 6200 0102 0a00 0001 0d03", 0)

	assembleAndMatchHex(t, "NestedIf",
		"If SavemapWord($GameProgress) == 1596 Then\n"+
			"If GetDistanceToPoint(9) <= 256 Then\n"+
			"  EnterFieldLevel(52, 0)\n"+
			"EndIf\nEndIf\nLoadModel(0)\nEnd",
		"1c01 0000 1001 3c06 7000 0102 1600 0001 1001 0900 1800 1001 0001 6200 0102 "+
			"1600 0001 1001 3400 1001 0000 1803 0001 1001 0000 0003 0302", 0)
}

func TestResetStackInsertion(t *testing.T) {
	assembleAndMatchHex(t, "NestedStatementsStillReset",
		"If SavemapByte(0x0C15) < 5 Then\n"+
			"  PlaySound(433)\n"+
			"EndIf\n"+
			"PlaySound(434)\n"+
			"End",
		"1801 8803 1001 0500 6000 0102 0b00 0001 1001 b101 1d03 0001 1001 b201 1d03 0302", 0)
}

func TestComplexNestedGoto(t *testing.T) {
	assembleAndMatchHex(t, "NestedGotoSkipsReset",
		"If SpecialByte($PlayerEntityModelId) == $Buggy Then\n"+
			"  If Not(SavemapBit($YuffieFlags, 1)) Then\n"+
			"    PlayerControlsEnabled(0)\n"+
			"    RunModelFunction($Buggy, 18)\n"+
			"    GoTo @LABEL_1\n"+
			"  EndIf\n"+
			"  If Not(SavemapBit($YuffieFlags, 2)) Then\n"+
			"    PlayerControlsEnabled(0)\n"+
			"    RunModelFunction($Buggy, 18)\n"+
			"  EndIf\n"+
			"EndIf\n"+
			"@LABEL_1\n"+
			"End",
		"1b01 0800 1001 0600 7000 0102 622a 0001 1401 790e 1700 0102 542a 0001 1001 0000 0703 0001 "+
			"1001 0600 1602 0002 622a 0001 1401 7a0e 1700 0102 622a 0001 1001 0000 0703 0001 "+
			"1001 0600 1602 0302", 0x2a3d)
}

func TestUnresolvedLabelFails(t *testing.T) {
	_, err := assembler.Assemble("GoTo @NOWHERE\nEnd", 0)
	if !errors.Is(err, terrerr.UnresolvedLabel) {
		t.Fatalf("expected an UnresolvedLabel error, got %v", err)
	}
}

func TestUnmatchedEndIfFails(t *testing.T) {
	_, err := assembler.Assemble("EndIf\nEnd", 0)
	if !errors.Is(err, terrerr.UnmatchedEndIf) {
		t.Fatalf("expected an UnmatchedEndIf error, got %v", err)
	}
}
