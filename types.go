package understory

import (
	"github.com/jward/understory/internal/pyi"
	"github.com/jward/understory/internal/stubs"
)

// Public type aliases for internal types used in the Session API. These are
// Go type aliases (=) — identical to the internal types at compile time.
// External consumers use these names; no conversion is needed.

type Version = stubs.Version
type Index = stubs.Index
type Document = pyi.Document
type Declaration = pyi.Declaration
type DeclKind = pyi.DeclKind

// Declaration kinds.
const (
	DeclFunction   = pyi.KindFunction
	DeclClass      = pyi.KindClass
	DeclAssignment = pyi.KindAssignment
	DeclImport     = pyi.KindImport
)
