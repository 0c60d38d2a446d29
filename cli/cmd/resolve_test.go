package cmd

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/envyaml/resolve"
)

func TestResolveRun(t *testing.T) {
	tests := []struct {
		raw  string
		want []string // kind, origin, value
	}{
		{"${PORT:80}", []string{"int", "env:PORT", "8080"}},
		{"hello", []string{"string", "plain", "hello"}},
		{"${:42}", []string{"int", "literal", "42"}},
		{"${HOST:localhost}", []string{"string", "default:HOST", "localhost"}},
		{"${MISSING}", []string{"string", "missing:MISSING"}},
		{"[1, 2]", []string{"list", "plain", "[1,2]"}},
		{"3000000000", []string{"long", "plain", "3000000000"}},
		{"${x}", []string{"string", "malformed"}},
	}

	raws := make([]string, 0, len(tests))
	for _, tt := range tests {
		raws = append(raws, tt.raw)
	}

	var out bytes.Buffer

	ctx := WithOutput(context.Background(), &out)
	ctx = WithEnv(ctx, resolve.Map{"PORT": "8080"})

	if err := (&Resolve{Raw: raws}).Run(ctx); err != nil {
		t.Fatalf("Resolve.Run() error = %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != len(tests) {
		t.Fatalf("Resolve.Run() printed %d lines, want %d:\n%s", len(lines), len(tests), out.String())
	}

	for i, tt := range tests {
		if got := strings.Fields(lines[i]); !slices.Equal(got, tt.want) {
			t.Errorf("%q: got %q, want %q", tt.raw, got, tt.want)
		}
	}

	if strings.Contains(out.String(), "\x1b[") {
		t.Error("Resolve.Run() wrote colors to a non-terminal")
	}
}

func TestDescribeOrigin(t *testing.T) {
	env := resolve.Map{"A": "1"}

	tests := []struct {
		raw  string
		want string
	}{
		{"${A}", "env:A"},
		{"${B:2}", "default:B"},
		{"plain", "plain"},
		{"${:x}", "literal"},
	}

	for _, tt := range tests {
		if got := describeOrigin(resolve.Explain(tt.raw, env)); got != tt.want {
			t.Errorf("describeOrigin(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
