// Package manifest reads, transforms and writes package.json documents.
//
// A Document is an immutable, order-preserving JSON object: every edit
// returns a new Document and leaves the receiver untouched, and keys keep
// the order they were read in so rewritten files diff cleanly. Edits are
// expressed as named Steps that are no-ops when their key path is absent,
// which makes applying a step twice equivalent to applying it once.
package manifest
