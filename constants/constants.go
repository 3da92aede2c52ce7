// Package constants holds the bidirectional lookup tables the
// disassembler and assembler use to render and resolve symbolic names:
// interpreter special variables, savemap addresses, field IDs and model
// IDs.
//
// Collision policy: if an identifier appears in more than one map (spec.md
// leaves this undefined), $Name resolution in the assembler checks the maps
// in the fixed order SpecialVars, SavemapVars, FieldIDs, Models and returns
// the first match. No such collision exists in the tables below.
package constants

// SpecialVars maps special-variable IDs to their symbolic names.
var SpecialVars = map[int]string{
	4:  "EntityDirection",
	6:  "LastFieldID",
	8:  "PlayerEntityModelId",
	16: "Random8BitNumber",
}

// SavemapVars maps absolute savemap byte addresses to their symbolic names.
var SavemapVars = map[int]string{
	0xBA4: "GameProgress",
	0xD73: "YuffieFlags",
}

// FieldIDs maps field IDs to their symbolic names.
var FieldIDs = map[int]string{
	0:  "Midgar",
	52: "CostaDelSol",
}

// Models maps model IDs to their symbolic names.
var Models = map[int]string{
	3:  "Highwind",
	6:  "Buggy",
	14: "GoldSaucer",
	24: "Cloud",
}

// reverse builds a name->id lookup once, from a given id->name map.
func reverse(m map[int]string) map[string]int {
	r := make(map[string]int, len(m))
	for id, name := range m {
		r[name] = id
	}
	return r
}

var (
	specialVarsByName = reverse(SpecialVars)
	savemapVarsByName = reverse(SavemapVars)
	fieldIDsByName    = reverse(FieldIDs)
	modelsByName      = reverse(Models)
)

// ResolveName looks up a bare identifier (without its leading "$") against
// every constant category, in the fixed precedence order documented in the
// package comment, and returns its integer value.
func ResolveName(name string) (int, bool) {
	if v, ok := specialVarsByName[name]; ok {
		return v, true
	}
	if v, ok := savemapVarsByName[name]; ok {
		return v, true
	}
	if v, ok := fieldIDsByName[name]; ok {
		return v, true
	}
	if v, ok := modelsByName[name]; ok {
		return v, true
	}
	return 0, false
}
