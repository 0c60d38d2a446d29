package tree

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// NodeKind identifies the shape of a [Node].
type NodeKind int

const (
	NodeNull   NodeKind = iota // null
	NodeBool                   // bool
	NodeInt                    // int
	NodeUint                   // uint
	NodeFloat                  // float
	NodeString                 // string
	NodeDate                   // date
	NodeList                   // list
	NodeMap                    // map
)

// String returns the name of the node kind.
func (k NodeKind) String() string {
	switch k {
	case NodeNull:
		return "null"
	case NodeBool:
		return "bool"
	case NodeInt:
		return "int"
	case NodeUint:
		return "uint"
	case NodeFloat:
		return "float"
	case NodeString:
		return "string"
	case NodeDate:
		return "date"
	case NodeList:
		return "list"
	case NodeMap:
		return "map"
	default:
		return "NodeKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Node is one element of a generic parsed document.
type Node struct {
	Kind  NodeKind
	Bool  bool
	Int   int64
	Uint  uint64
	Float float64
	Str   string
	Date  time.Time
	List  []*Node
	Map   []Entry
}

// Entry is a single key/value pair of a [NodeMap] node.
// Keys are arbitrary nodes.
type Entry struct {
	Key   *Node
	Value *Node
}

// NullNode returns a null node.
func NullNode() *Node { return &Node{Kind: NodeNull} }

// BoolNode returns a boolean node.
func BoolNode(b bool) *Node { return &Node{Kind: NodeBool, Bool: b} }

// IntNode returns a signed integer node.
func IntNode(i int64) *Node { return &Node{Kind: NodeInt, Int: i} }

// UintNode returns an unsigned integer node.
func UintNode(u uint64) *Node { return &Node{Kind: NodeUint, Uint: u} }

// FloatNode returns a floating-point node.
func FloatNode(f float64) *Node { return &Node{Kind: NodeFloat, Float: f} }

// StringNode returns a string node.
func StringNode(s string) *Node { return &Node{Kind: NodeString, Str: s} }

// DateNode returns a date node.
func DateNode(t time.Time) *Node { return &Node{Kind: NodeDate, Date: t} }

// ListNode returns a list node containing the given elements.
func ListNode(elems ...*Node) *Node { return &Node{Kind: NodeList, List: elems} }

// MapNode returns a map node containing the given entries.
func MapNode(entries ...Entry) *Node { return &Node{Kind: NodeMap, Map: entries} }

// Pair is shorthand for an [Entry] with a string key.
func Pair(key string, value *Node) Entry {
	return Entry{Key: StringNode(key), Value: value}
}

// Text returns the canonical text representation of n.
//
// Text is used to coerce map keys of any kind to strings, and to stringify
// already-typed leaves before they are handed to the scalar resolver.
// Floats always carry a fraction or exponent so that they are not mistaken
// for integers when re-read. Dates are rendered in RFC 3339 with nanosecond
// precision in UTC.
func (n *Node) Text() string {
	if n == nil {
		return "null"
	}

	switch n.Kind {
	case NodeNull:
		return "null"

	case NodeBool:
		return strconv.FormatBool(n.Bool)

	case NodeInt:
		return strconv.FormatInt(n.Int, 10)

	case NodeUint:
		return strconv.FormatUint(n.Uint, 10)

	case NodeFloat:
		return formatFloat(n.Float)

	case NodeString:
		return n.Str

	case NodeDate:
		return n.Date.UTC().Format(time.RFC3339Nano)

	case NodeList:
		part := make([]string, 0, len(n.List))
		for _, e := range n.List {
			part = append(part, e.Text())
		}

		return "[" + strings.Join(part, ", ") + "]"

	case NodeMap:
		part := make([]string, 0, len(n.Map))
		for _, e := range n.Map {
			part = append(part, e.Key.Text()+"="+e.Value.Text())
		}

		return "{" + strings.Join(part, ", ") + "}"

	default:
		return ""
	}
}

// Native converts n to plain Go values: map[string]any (keys coerced with
// [Node.Text]), []any, bool, int64, uint64, float64, string, time.Time, or
// nil.
func (n *Node) Native() any {
	if n == nil {
		return nil
	}

	switch n.Kind {
	case NodeBool:
		return n.Bool

	case NodeInt:
		return n.Int

	case NodeUint:
		return n.Uint

	case NodeFloat:
		return n.Float

	case NodeString:
		return n.Str

	case NodeDate:
		return n.Date

	case NodeList:
		list := make([]any, 0, len(n.List))
		for _, e := range n.List {
			list = append(list, e.Native())
		}

		return list

	case NodeMap:
		m := make(map[string]any, len(n.Map))
		for _, e := range n.Map {
			m[e.Key.Text()] = e.Value.Native()
		}

		return m

	default:
		return nil
	}
}

// formatFloat formats f so that the result re-parses as a float and never
// as an integer.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}

	return s
}
