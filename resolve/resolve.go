package resolve

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/envyaml/tree"
)

// Origin describes where a resolved value came from.
type Origin int

const (
	OriginPlain     Origin = iota // plain
	OriginLiteral                 // literal
	OriginEnv                     // env
	OriginDefault                 // default
	OriginMissing                 // missing
	OriginMalformed               // malformed
)

// String returns the name of the origin.
func (o Origin) String() string {
	switch o {
	case OriginPlain:
		return "plain"
	case OriginLiteral:
		return "literal"
	case OriginEnv:
		return "env"
	case OriginDefault:
		return "default"
	case OriginMissing:
		return "missing"
	case OriginMalformed:
		return "malformed"
	default:
		return "Origin(" + strconv.Itoa(int(o)) + ")"
	}
}

// Result is a resolved scalar along with how it was obtained.
type Result struct {
	Value  *tree.Value
	Origin Origin
	// Name is the environment variable consulted, if any.
	Name string
}

// Resolve substitutes a placeholder in raw, if raw is exactly one, and
// infers the type of the result. It never fails.
func Resolve(raw string, env Env) *tree.Value {
	return Explain(raw, env).Value
}

// Explain is like [Resolve] but also reports the origin of the value.
func Explain(raw string, env Env) Result {
	if env == nil {
		env = Empty
	}

	value := strings.TrimSpace(raw)

	if utf8.RuneCountInString(value) <= 3 ||
		!strings.HasPrefix(value, "${") ||
		!strings.HasSuffix(value, "}") {
		return Result{Value: Normalize(value), Origin: OriginPlain}
	}

	body := strings.TrimSpace(value[2 : len(value)-1])
	if utf8.RuneCountInString(body) <= 1 {
		return Result{Value: tree.String(""), Origin: OriginMalformed}
	}

	name, fallback, found := strings.Cut(body, ":")

	switch {
	case !found:
		v, ok := env.Lookup(body)
		if !ok {
			return Result{Value: tree.String(""), Origin: OriginMissing, Name: body}
		}

		return Result{Value: Normalize(v), Origin: OriginEnv, Name: body}

	case name == "":
		return Result{Value: Normalize(fallback), Origin: OriginLiteral}

	default:
		if v, ok := env.Lookup(name); ok && v != "" {
			return Result{Value: Normalize(v), Origin: OriginEnv, Name: name}
		}

		return Result{Value: Normalize(fallback), Origin: OriginDefault, Name: name}
	}
}

// Normalize infers the scalar type of value.
//
// A bracketed value containing a comma becomes a list of inferred pieces.
// Pieces are not themselves bracket-expanded, and commas inside quotes are
// not special. Trailing empty pieces are dropped.
func Normalize(value string) *tree.Value {
	s := strings.TrimSpace(value)

	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return classify(s)
	}

	inner := s[1 : len(s)-1]
	if !strings.Contains(inner, ",") {
		return classify(inner)
	}

	pieces := strings.Split(inner, ",")
	for len(pieces) > 0 && pieces[len(pieces)-1] == "" {
		pieces = pieces[:len(pieces)-1]
	}

	list := make([]*tree.Value, 0, len(pieces))
	for _, p := range pieces {
		list = append(list, classify(p))
	}

	return tree.List(list...)
}

// classify infers a single scalar from str.
func classify(str string) *tree.Value {
	s := strings.TrimSpace(str)
	if s == "" {
		return tree.String("")
	}

	// Signs are not digits, so negative integers continue on to the float
	// parse below.
	if i, ok := parseDigits(s); ok {
		if i > math.MaxInt32 {
			return tree.Long(i)
		}

		return tree.Int(int32(i))
	}

	if f, ok := parseFloat(s); ok {
		return tree.Float(f)
	}

	if u, ok := unquote(s); ok {
		return tree.String(u)
	}

	return tree.String(s)
}

// parseDigits parses s as a run of decimal digits from any script, so
// "١٢٣" is 123. It fails on any other rune and on int64 overflow.
func parseDigits(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}

	var n int64

	for _, r := range s {
		d, ok := digitValue(r)
		if !ok || n > (math.MaxInt64-d)/10 {
			return 0, false
		}

		n = n*10 + d
	}

	return n, true
}

// digitValue returns the value of the decimal digit r. Unicode encodes every
// decimal digit in a contiguous run of ten starting at zero, and each range
// of [unicode.Digit] begins at a zero.
func digitValue(r rune) (int64, bool) {
	if '0' <= r && r <= '9' {
		return int64(r - '0'), true
	}

	if r < utf8.RuneSelf || !unicode.IsDigit(r) {
		return 0, false
	}

	for _, rg := range unicode.Digit.R16 {
		if lo, hi := rune(rg.Lo), rune(rg.Hi); lo <= r && r <= hi {
			return int64(r-lo) % 10, true
		}
	}

	for _, rg := range unicode.Digit.R32 {
		if lo, hi := rune(rg.Lo), rune(rg.Hi); lo <= r && r <= hi {
			return int64(r-lo) % 10, true
		}
	}

	return 0, false
}

// parseFloat accepts decimal and hexadecimal floats with an optional
// trailing type suffix (f, F, d, or D), along with the spellings NaN,
// Infinity, and their signed forms. Out-of-range values become signed
// infinities. Other spellings of infinity or NaN, and digit separators, are
// rejected.
func parseFloat(s string) (float64, bool) {
	switch s {
	case "NaN", "+NaN", "-NaN":
		return math.NaN(), true
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}

	s = trimTypeSuffix(s)

	if strings.ContainsAny(s, "_iInN") {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err == nil || errors.Is(err, strconv.ErrRange) {
		return f, true
	}

	return 0, false
}

// trimTypeSuffix removes one trailing f, F, d, or D that follows a digit or
// decimal point. Hexadecimal floats always end in exponent digits, so a hex
// digit f or d ending a mantissa is left alone and fails to parse.
func trimTypeSuffix(s string) string {
	n := len(s)
	if n < 2 || !strings.ContainsRune("fFdD", rune(s[n-1])) {
		return s
	}

	if c := s[n-2]; c == '.' || ('0' <= c && c <= '9') {
		return s[:n-1]
	}

	return s
}

// unquote strips one layer of matching single or double quotes.
func unquote(s string) (string, bool) {
	if len(s) < 2 {
		return s, false
	}

	if q := s[0]; (q == '"' || q == '\'') && s[len(s)-1] == q {
		return s[1 : len(s)-1], true
	}

	return s, false
}
