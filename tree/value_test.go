package tree

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
)

func TestObject_Set_LastWriteWinsKeepsPosition(t *testing.T) {
	o := NewObject()
	o.Set("a", Int(1))
	o.Set("b", Int(2))
	o.Set("a", String("x"))

	if got := o.Keys(); strings.Join(got, ",") != "a,b" {
		t.Errorf("keys = %v, want [a b]", got)
	}

	v, ok := o.Get("a")
	if !ok || !v.Equal(String("x")) {
		t.Errorf("a = %v, want string x", v)
	}

	if o.Len() != 2 {
		t.Errorf("len = %d, want 2", o.Len())
	}
}

func TestObject_ZeroValueUsable(t *testing.T) {
	var o Object
	o.Set("k", Null())

	if _, ok := o.Get("k"); !ok {
		t.Error("expected key in zero-value object")
	}
}

func TestInteger_Narrowing(t *testing.T) {
	tests := []struct {
		in   int64
		want Kind
	}{
		{0, KindInt},
		{math.MaxInt32, KindInt},
		{math.MaxInt32 + 1, KindLong},
		{math.MinInt32, KindInt},
		{math.MinInt32 - 1, KindLong},
	}

	for _, tt := range tests {
		if got := Integer(tt.in).Kind; got != tt.want {
			t.Errorf("Integer(%d).Kind = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValue_MarshalJSON_PreservesOrder(t *testing.T) {
	inner := NewObject()
	inner.Set("z", Long(3000000000))
	inner.Set("a", Float(1.5))

	o := NewObject()
	o.Set("second", FromObject(inner))
	o.Set("first", List(Int(1), String("two"), Null()))
	o.Set("when", Instant(time.Date(2001, 12, 14, 21, 59, 43, 100, time.UTC)))
	o.Set("nan", Float(math.NaN()))

	b, err := json.Marshal(FromObject(o))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{"second":{"z":3000000000,"a":1.5},"first":[1,"two",null],` +
		`"when":"2001-12-14T21:59:43.0000001Z","nan":"NaN"}`
	if string(b) != want {
		t.Errorf("got  %s\nwant %s", b, want)
	}
}

func TestValue_MarshalYAML_OrderedMapping(t *testing.T) {
	o := NewObject()
	o.Set("b", Int(1))
	o.Set("a", String("x"))

	b, err := yaml.Marshal(FromObject(o))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if got := string(b); got != "b: 1\na: x\n" {
		t.Errorf("got %q", got)
	}
}

func TestValue_Lookup(t *testing.T) {
	db := NewObject()
	db.Set("hosts", List(String("a"), String("b")))

	root := NewObject()
	root.Set("db", FromObject(db))

	v := FromObject(root)

	tests := []struct {
		path string
		want *Value
		ok   bool
	}{
		{"", v, true},
		{"db.hosts.1", String("b"), true},
		{"db.hosts.2", nil, false},
		{"db.hosts.x", nil, false},
		{"db.port", nil, false},
		{"db.hosts.0.deeper", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := v.Lookup(tt.path)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}

			if ok && !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got.Text(), tt.want.Text())
			}
		})
	}
}

func TestValue_Equal(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		a, b *Value
		want bool
	}{
		{"nil_nil", nil, nil, true},
		{"nil_null", nil, Null(), false},
		{"int_long", Int(1), Long(1), false},
		{"nan", Float(math.NaN()), Float(math.NaN()), true},
		{"instant_zone", Instant(now), Instant(now.In(time.FixedZone("x", 3600))), true},
		{"list", List(Int(1)), List(Int(1)), true},
		{"list_len", List(Int(1)), List(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNode_Text(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want string
	}{
		{"nil", nil, "null"},
		{"null", NullNode(), "null"},
		{"bool", BoolNode(true), "true"},
		{"int", IntNode(-7), "-7"},
		{"uint", UintNode(math.MaxUint64), "18446744073709551615"},
		{"float_integral", FloatNode(1000), "1000.0"},
		{"float_fraction", FloatNode(3.25), "3.25"},
		{"float_exp", FloatNode(1e21), "1e+21"},
		{"float_inf", FloatNode(math.Inf(-1)), "-Infinity"},
		{"date", DateNode(time.Date(2001, 12, 14, 0, 0, 0, 0, time.UTC)), "2001-12-14T00:00:00Z"},
		{"list", ListNode(IntNode(1), StringNode("a")), "[1, a]"},
		{"map", MapNode(Pair("k", IntNode(1))), "{k=1}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNode_Native_CoercesKeys(t *testing.T) {
	n := MapNode(
		Entry{Key: IntNode(1), Value: StringNode("one")},
		Entry{Key: BoolNode(false), Value: ListNode(FloatNode(0.5))},
	)

	m, ok := n.Native().(map[string]any)
	if !ok {
		t.Fatalf("Native() = %T, want map[string]any", n.Native())
	}

	if m["1"] != "one" {
		t.Errorf("m[1] = %v", m["1"])
	}

	if l, ok := m["false"].([]any); !ok || len(l) != 1 || l[0] != 0.5 {
		t.Errorf("m[false] = %v", m["false"])
	}
}
