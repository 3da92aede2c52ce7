package constants_test

import (
	"testing"

	"github.com/ff7tools/terraform/constants"
)

func TestResolveNameAcrossCategories(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"EntityDirection", 4},
		{"GameProgress", 0xBA4},
		{"CostaDelSol", 52},
		{"Highwind", 3},
	}
	for _, tc := range tests {
		got, ok := constants.ResolveName(tc.name)
		if !ok {
			t.Errorf("ResolveName(%q): not found", tc.name)
			continue
		}
		if got != tc.want {
			t.Errorf("ResolveName(%q) = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestResolveNameUnknown(t *testing.T) {
	if _, ok := constants.ResolveName("NotARealConstant"); ok {
		t.Fatal("expected an unrecognized identifier to fail resolution")
	}
}
