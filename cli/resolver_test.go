package cli

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/alecthomas/kong"

	"github.com/ardnew/envyaml/resolve"
)

const testConfig = `
log:
  level: ${LVL:debug}
  caller: true
env_prepend:
  - PATH=/opt/bin
  - MANPATH=/opt/man
parser: yamlv3
unset: ~
`

func loadTestConfig(t *testing.T, data string, env resolve.Env) config {
	t.Helper()

	r, err := loadConfig(context.Background(), env)(strings.NewReader(data))
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	cfg, ok := r.(config)
	if !ok {
		t.Fatalf("loadConfig() resolver type = %T, want config", r)
	}

	return cfg
}

func TestLoadConfig(t *testing.T) {
	cfg := loadTestConfig(t, testConfig, resolve.Map{})

	want := config{
		"log-level":   "debug",
		"log-caller":  "true",
		"env_prepend": []any{"PATH=/opt/bin", "MANPATH=/opt/man"},
		"parser":      "yamlv3",
	}

	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("loadConfig() = %#v, want %#v", cfg, want)
	}
}

func TestLoadConfig_Placeholders(t *testing.T) {
	cfg := loadTestConfig(t, testConfig, resolve.Map{"LVL": "trace"})

	if got := cfg["log-level"]; got != "trace" {
		t.Errorf("log-level = %v, want trace", got)
	}
}

func TestLoadConfig_Ignored(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"not_a_mapping", "- a\n- b\n"},
		{"invalid_yaml", "key: [unterminated\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if cfg := loadTestConfig(t, tt.data, resolve.Empty); len(cfg) != 0 {
				t.Errorf("loadConfig(%q) = %v, want empty", tt.data, cfg)
			}
		})
	}
}

func TestLoadConfig_ReadError(t *testing.T) {
	loader := loadConfig(context.Background(), resolve.Empty)

	r, err := loader(iotest.ErrReader(errors.New("boom")))
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if cfg, ok := r.(config); !ok || len(cfg) != 0 {
		t.Errorf("loadConfig() = %v, want empty config", r)
	}
}

func TestConfigResolve_UnderscoreHyphenMapping(t *testing.T) {
	cfg := loadTestConfig(t, testConfig, resolve.Empty)

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"env-prepend", []any{"PATH=/opt/bin", "MANPATH=/opt/man"}},
		{"env_prepend", []any{"PATH=/opt/bin", "MANPATH=/opt/man"}},
		{"parser", "yamlv3"},
		{"unset", nil},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			flag := &kong.Flag{Value: &kong.Value{Name: tt.flag}}

			got, err := cfg.Resolve(nil, nil, flag)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve(%q) = %#v, want %#v", tt.flag, got, tt.want)
			}
		})
	}

	if err := cfg.Validate(nil); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}
