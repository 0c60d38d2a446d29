package cli

import (
	"testing"

	"github.com/ardnew/envyaml/log"
)

func resetLog(t *testing.T) {
	t.Helper()

	t.Cleanup(func() {
		log.Config(
			log.WithLevel(log.DefaultLevel),
			log.WithFormat(log.DefaultFormat),
			log.WithCaller(false),
			log.WithPretty(true),
		)
	})
}

func TestLogConfigScan(t *testing.T) {
	resetLog(t)

	tests := []struct {
		name       string
		args       []string
		wantLevel  logLevel
		wantFormat logFormat
		wantCaller bool
		wantPretty bool
	}{
		{
			name:       "none",
			args:       []string{"eval", "a.yaml"},
			wantPretty: true,
		},
		{
			name:       "assigned",
			args:       []string{"--log-level=debug", "--log-format=json"},
			wantLevel:  "debug",
			wantFormat: "json",
			wantPretty: true,
		},
		{
			name:       "separate_values",
			args:       []string{"eval", "--log-level", "warn", "--log-format", "text"},
			wantLevel:  "warn",
			wantFormat: "text",
			wantPretty: true,
		},
		{
			name:       "value_missing",
			args:       []string{"--log-level", "--log-caller"},
			wantCaller: true,
			wantPretty: true,
		},
		{
			name:       "negated_booleans",
			args:       []string{"--no-log-pretty", "--no-log-caller"},
			wantPretty: false,
		},
		{
			name:       "assigned_booleans",
			args:       []string{"--log-caller=true", "--log-pretty=false"},
			wantCaller: true,
		},
		{
			name:       "negated_assigned",
			args:       []string{"--no-log-pretty=false"},
			wantPretty: true,
		},
		{
			name:       "invalid_boolean_ignored",
			args:       []string{"--log-caller=maybe"},
			wantPretty: true,
		},
		{
			name:       "stops_at_terminator",
			args:       []string{"--", "--log-level=error"},
			wantPretty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := logConfig{Pretty: true}
			f.scan(tt.args)

			if f.Level != tt.wantLevel || f.Format != tt.wantFormat {
				t.Errorf("scan(%q) level, format = %q, %q, want %q, %q",
					tt.args, f.Level, f.Format, tt.wantLevel, tt.wantFormat)
			}

			if f.Caller != tt.wantCaller || f.Pretty != tt.wantPretty {
				t.Errorf("scan(%q) caller, pretty = %v, %v, want %v, %v",
					tt.args, f.Caller, f.Pretty, tt.wantCaller, tt.wantPretty)
			}
		})
	}
}
