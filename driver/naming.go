package driver

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/ff7tools/terraform/disassembler"
	"github.com/ff7tools/terraform/script"
	"github.com/ff7tools/terraform/terrerr"
)

// Function file names follow extrator.py's read_functions/dump_functions
// format exactly: a zero-padded 3-digit index (plus, for a duplicate
// stub, a "-DDD" suffix naming the index it duplicates), then the kind
// and its IDs. Mesh coordinates are decomposed as x = id/36, z = id%36.
var (
	systemNameRE = regexp.MustCompile(`^(\d{3})(?:-(\d{3}))?_system_(\d+)$`)
	modelNameRE  = regexp.MustCompile(`^(\d{3})(?:-(\d{3}))?_model_(\d+)_(\d+)$`)
	meshNameRE   = regexp.MustCompile(`^(\d{3})(?:-(\d{3}))?_mesh_(\d+)_(\d+)_(\d+)$`)
)

// parsedName is a function file name, decoded back into an index entry.
type parsedName struct {
	Index       int
	IsDuplicate bool
	DuplicateOf int
	Ident       uint16
}

func parseFileName(name string) (parsedName, error) {
	if m := systemNameRE.FindStringSubmatch(name); m != nil {
		id, _ := strconv.Atoi(m[3])
		return newParsedName(m[1], m[2], script.PackIdent(script.System, id, 0))
	}
	if m := modelNameRE.FindStringSubmatch(name); m != nil {
		modelID, _ := strconv.Atoi(m[3])
		funcID, _ := strconv.Atoi(m[4])
		return newParsedName(m[1], m[2], script.PackIdent(script.Model, modelID, funcID))
	}
	if m := meshNameRE.FindStringSubmatch(name); m != nil {
		x, _ := strconv.Atoi(m[3])
		z, _ := strconv.Atoi(m[4])
		wtype, _ := strconv.Atoi(m[5])
		return newParsedName(m[1], m[2], script.PackIdent(script.Mesh, x*36+z, wtype))
	}
	return parsedName{}, fmt.Errorf("driver: unrecognized function file name %q: %w", name, terrerr.MalformedContainer)
}

func newParsedName(indexStr, dupStr string, ident uint16) (parsedName, error) {
	index, err := strconv.Atoi(indexStr)
	if err != nil {
		return parsedName{}, fmt.Errorf("driver: bad index in file name: %w", err)
	}
	pn := parsedName{Index: index, Ident: ident}
	if dupStr != "" {
		dup, err := strconv.Atoi(dupStr)
		if err != nil {
			return parsedName{}, fmt.Errorf("driver: bad duplicate-of index in file name: %w", err)
		}
		pn.IsDuplicate = true
		pn.DuplicateOf = dup
	}
	return pn, nil
}

// fileName renders a disassembled function's output file name, the
// inverse of parseFileName.
func fileName(fn disassembler.Function) string {
	prefix := fmt.Sprintf("%03d", fn.StartOffset)
	if fn.Duplicate {
		prefix = fmt.Sprintf("%03d-%03d", fn.StartOffset, fn.DuplicateIndex)
	}
	switch fn.Entry.Kind {
	case script.System:
		return fmt.Sprintf("%s_system_%02d", prefix, fn.Entry.SystemID)
	case script.Model:
		return fmt.Sprintf("%s_model_%02d_%02d", prefix, fn.Entry.ModelID, fn.Entry.FunctionID)
	case script.Mesh:
		x, z := fn.Entry.MeshCoords/36, fn.Entry.MeshCoords%36
		return fmt.Sprintf("%s_mesh_%02d_%02d_%d", prefix, x, z, fn.Entry.WalkmeshType)
	}
	return prefix
}

// groupOrder ranks the three function kinds for compile's "system, model,
// mesh" group ordering.
func groupOrder(k script.Kind) int {
	switch k {
	case script.System:
		return 0
	case script.Model:
		return 1
	case script.Mesh:
		return 2
	default:
		return 3
	}
}
