// Package terrerr defines the sentinel error categories the toolchain's
// other packages wrap their errors in, so the driver can classify a
// failure (and pick an exit code) with errors.Is instead of string
// matching.
package terrerr

import "errors"

var (
	// MalformedContainer covers an invalid function-type tag, truncated
	// code, or a missing/short messages file.
	MalformedContainer = errors.New("malformed container")
	// ParseError covers a textual-assembly line the parser rejects.
	ParseError = errors.New("parse error")
	// UnknownOpcode covers a mnemonic absent from the opcode table.
	UnknownOpcode = errors.New("unknown opcode")
	// UnresolvedLabel covers a GoTo/If patch with no matching label.
	UnresolvedLabel = errors.New("unresolved label")
	// UnmatchedEndIf covers an EndIf with no pending If.
	UnmatchedEndIf = errors.New("unmatched EndIf")
	// ValueResolution covers an identifier that is neither a literal nor
	// a known named constant.
	ValueResolution = errors.New("value resolution")
	// IO covers failures reading or writing files on disk.
	IO = errors.New("io error")
)
