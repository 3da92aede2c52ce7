package opcode_test

import (
	"testing"

	"github.com/ff7tools/terraform/opcode"
)

func TestByCodeExpandsRunModelFunctionRange(t *testing.T) {
	op, ok := opcode.ByCode(0x218)
	if !ok {
		t.Fatal("expected 0x218 to resolve as RunModelFunction")
	}
	if op.Mnemonic != "RunModelFunction" {
		t.Fatalf("expected RunModelFunction, got %s", op.Mnemonic)
	}

	if op, ok := opcode.ByCode(0x300); ok && op.Mnemonic == "RunModelFunction" {
		t.Fatal("0x300 is outside the RunModelFunction range and should not resolve to it")
	}
}

func TestByCodeUnknown(t *testing.T) {
	if _, ok := opcode.ByCode(0xdead); ok {
		t.Fatal("expected an unused code to be unknown")
	}
}

func TestByMnemonicRoundTrip(t *testing.T) {
	op, ok := opcode.ByMnemonic("PlaySound")
	if !ok {
		t.Fatal("expected PlaySound to be defined")
	}
	if op.Code != opcode.CodePlaySound {
		t.Fatalf("expected code 0x%04x, got 0x%04x", opcode.CodePlaySound, op.Code)
	}
	if op.StackArity != 1 {
		t.Fatalf("expected stack arity 1, got %d", op.StackArity)
	}
}

func TestInfixTokenTable(t *testing.T) {
	tests := map[uint16]string{
		opcode.CodeAdd:    "+",
		opcode.CodeSub:    "-",
		opcode.CodeMul:    "*",
		opcode.CodeIsEqual: "==",
		opcode.CodeLogicAnd: "AND",
	}
	for code, want := range tests {
		got, ok := opcode.InfixToken(code)
		if !ok || got != want {
			t.Errorf("InfixToken(0x%04x) = %q, %v; want %q, true", code, got, ok, want)
		}
	}

	if _, ok := opcode.InfixToken(opcode.CodeValue); ok {
		t.Fatal("Value is not an infix operator")
	}
}
