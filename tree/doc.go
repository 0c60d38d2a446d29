// Package tree defines the two document representations used by envyaml.
//
// A [Node] is the loosely-typed tree produced by a YAML parser: mappings may
// have keys of any kind, and leaves keep whatever scalar type the parser
// assigned them (including dates).
//
// A [Value] is the strictly-typed configuration tree handed back to callers.
// It has only four shapes: object, list, scalar, and null. Scalars are one of
// a 32-bit integer, a 64-bit integer, a double-precision float, a string, or
// an instant in time.
//
// Both types are tagged variants: the Kind field selects which of the other
// fields is meaningful, and every consumer switches over the kind instead of
// performing runtime type assertions.
package tree
