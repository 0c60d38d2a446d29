// Package resolve turns raw configuration strings into typed scalars.
//
// # Placeholders
//
// A raw string whose trimmed form is exactly one placeholder expression is
// substituted from the environment before its type is inferred:
//
//	${NAME}          value of NAME, or "" when NAME is unset
//	${NAME:default}  value of NAME, or default when NAME is unset or empty
//	${:literal}      literal, without consulting the environment
//
// A placeholder embedded in a larger string is not recognized; the whole
// string is inferred as plain text instead. A placeholder body of at most one
// character (for example "${:}" or "${a}") resolves to "".
//
// # Type inference
//
// [Normalize] infers the most specific scalar:
//
//	"[a,b,c]"   list of inferred pieces (split on commas, no nesting)
//	"[42]"      the inferred single inner value, not a list
//	"123"       int, or long beyond 2147483647
//	"3.14"      float
//	"1.5f"      float; a trailing f, F, d, or D type suffix is accepted
//	"'quoted'"  string with one layer of quotes removed
//	anything    the trimmed string
//
// Integer digits may come from any script, so "١٢٣" is the int 123. Floats
// use ASCII digits only.
//
// Only unsigned digit strings are integers: "-5" fails the digit scan and is
// inferred as the float -5. This is the established policy and callers rely
// on it.
//
// The environment is always passed explicitly as an [Env], so resolution is a
// pure function of its inputs.
package resolve
