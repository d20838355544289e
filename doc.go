// Package understory resolves Python interface-declaration stubs (.pyi
// files in the typeshed layout) and overlays them onto the module
// representations an analysis engine derives from real source. Type
// information comes from the stub; go-to-definition stays on the concrete
// source whenever it exists.
//
// # Pipeline
//
// Understory operates in four stages, all within a single [Session]:
//
//  1. Locate: for an analyzed Python version, enumerate the stub directories
//     to search, in a deterministic override order.
//
//  2. Index: map each importable name to its stub file, later directories
//     overriding earlier ones, and cache the merged index per version.
//
//  3. Intercept: wrap the engine's import-resolution hook with
//     [Session.WrapImportModule]. Imports with a stub return either a
//     stub-only module (no concrete result) or one overlaid module per
//     concrete result.
//
//  4. Merge: when an overlaid module is asked for its names, each
//     stub-declared name pairs with any same-named concrete declaration.
//     The pair navigates to the concrete location and infers through the
//     stub declaration.
//
// # Usage
//
// Create a Session over a typeshed-style directory and wrap the engine's
// import resolver:
//
//	s := understory.NewSession("/path/to/typeshed")
//	resolve := s.WrapImportModule(engine.ImportModule)
//
//	mods := resolve(engine, []string{"os"}, nil, nil)
//
// The host engine supplies its module representations through the [Context]
// capability contract and may install its inference hook with
// [WithInferrer]. Stub parsing defaults to tree-sitter and can be replaced
// with [WithParser].
//
// # Caching
//
// The per-version index and per-path documents are cached for the Session's
// lifetime with no invalidation: a stub tree changed on disk after first use
// is not observed until a new Session is created. A Session assumes a single
// analysis goroutine; concurrent hosts must add their own synchronization or
// use one Session per thread.
//
// # Failure model
//
// Nothing in the resolution path returns an error. Missing directories,
// unreadable files, and index entries whose file has since been deleted all
// degrade to "no stub exists for this name", leaving the concrete result
// untouched.
package understory
