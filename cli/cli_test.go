package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/envyaml/cli/cmd"
	"github.com/ardnew/envyaml/pkg"
	"github.com/ardnew/envyaml/resolve"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "envyaml-cli-test-")
	if err != nil {
		panic(err)
	}

	os.Setenv(pkg.EnvPrefix+"CONFIG_DIR", filepath.Join(dir, "config"))
	os.Setenv(pkg.EnvPrefix+"CACHE_DIR", filepath.Join(dir, "cache"))

	code := m.Run()

	os.RemoveAll(dir)
	os.Exit(code)
}

// exited is raised by the exit function given to [run].
type exited struct{ code int }

// runCLI runs the CLI against base and returns what it printed.
func runCLI(t *testing.T, base resolve.Env, args ...string) (out string, code int, err error) {
	t.Helper()

	var buf bytes.Buffer

	code = -1

	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(exited)
			if !ok {
				panic(r)
			}

			out, code = buf.String(), e.code
		}
	}()

	err = run(context.Background(), func(c int) { panic(exited{c}) }, base, &buf, args...)

	return buf.String(), code, err
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "doc.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	return path
}

// writeConfig installs a config file for the duration of the test.
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(pkg.ConfigDir(), baseConfig)
	if err := os.MkdirAll(filepath.Dir(path), pkg.DirMode); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	t.Cleanup(func() { os.Remove(path) })

	return path
}

const testDoc = "port: ${PORT:8080}\nname: demo\n"

func TestRunEval(t *testing.T) {
	resetLog(t)

	doc := writeDoc(t, testDoc)

	tests := []struct {
		name string
		base resolve.Env
		args []string
		want string
	}{
		{
			name: "explicit_command",
			base: resolve.Map{"PORT": "9090"},
			args: []string{"eval", doc},
			want: "{\n  \"port\": 9090,\n  \"name\": \"demo\"\n}\n",
		},
		{
			name: "default_command",
			base: resolve.Map{"PORT": "9090"},
			args: []string{doc},
			want: "{\n  \"port\": 9090,\n  \"name\": \"demo\"\n}\n",
		},
		{
			name: "compact",
			base: resolve.Empty,
			args: []string{"eval", "--indent=0", doc},
			want: "{\"port\":8080,\"name\":\"demo\"}\n",
		},
		{
			name: "env_set_overrides",
			base: resolve.Map{"PORT": "9090"},
			args: []string{"--env-set", "PORT=1", "eval", "--indent=0", doc},
			want: "{\"port\":1,\"name\":\"demo\"}\n",
		},
		{
			name: "no_inherit",
			base: resolve.Map{"PORT": "9090"},
			args: []string{"--no-env-inherit", "eval", "--indent=0", doc},
			want: "{\"port\":8080,\"name\":\"demo\"}\n",
		},
		{
			name: "yamlv3_parser",
			base: resolve.Empty,
			args: []string{"--parser=yamlv3", "eval", "--indent=0", doc},
			want: "{\"port\":8080,\"name\":\"demo\"}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCLI(t, tt.base, tt.args...)
			if err != nil {
				t.Fatalf("run(%q) error = %v", tt.args, err)
			}

			if out != tt.want {
				t.Errorf("run(%q) = %q, want %q", tt.args, out, tt.want)
			}
		})
	}
}

func TestRunResolve(t *testing.T) {
	resetLog(t)

	out, _, err := runCLI(t, resolve.Map{"PORT": "9090"},
		"resolve", "${PORT:1}", "${MISSING:2.5}", "plain")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	want := [][]string{
		{"int", "env:PORT", "9090"},
		{"float", "default:MISSING", "2.5"},
		{"string", "plain", "plain"},
	}

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != len(want) {
		t.Fatalf("run() printed %d lines, want %d:\n%s", len(lines), len(want), out)
	}

	for i, line := range lines {
		if got := strings.Fields(line); strings.Join(got, " ") != strings.Join(want[i], " ") {
			t.Errorf("line %d = %q, want %q", i, got, want[i])
		}
	}
}

func TestRunConfigFile(t *testing.T) {
	resetLog(t)

	writeConfig(t, "env:\n  set: ${CONFIG_SET:PORT=7}\n")

	doc := writeDoc(t, testDoc)

	out, _, err := runCLI(t, resolve.Empty, "eval", "--indent=0", doc)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if want := "{\"port\":7,\"name\":\"demo\"}\n"; out != want {
		t.Errorf("run() = %q, want %q", out, want)
	}

	// Flags on the command line override the config file.
	out, _, err = runCLI(t, resolve.Empty, "--env-set", "PORT=3", "eval", "--indent=0", doc)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if want := "{\"port\":3,\"name\":\"demo\"}\n"; out != want {
		t.Errorf("run() = %q, want %q", out, want)
	}
}

func TestRunVersion(t *testing.T) {
	resetLog(t)

	out, code, _ := runCLI(t, resolve.Empty, "--version")
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}

	if want := pkg.Name + " " + pkg.Version; !strings.Contains(out, want) {
		t.Errorf("version output = %q, want %q", out, want)
	}
}

func TestRunInit(t *testing.T) {
	resetLog(t)

	path := filepath.Join(pkg.ConfigDir(), baseConfig)
	t.Cleanup(func() { os.Remove(path) })

	if _, _, err := runCLI(t, resolve.Empty, "init"); err != nil {
		t.Fatalf("init error = %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	if _, _, err := runCLI(t, resolve.Empty, "init"); !errors.Is(err, cmd.ErrFileExists) {
		t.Errorf("second init error = %v, want %v", err, cmd.ErrFileExists)
	}

	if _, _, err := runCLI(t, resolve.Empty, "init", "--force"); err != nil {
		t.Errorf("forced init error = %v", err)
	}
}

func TestRunErrors(t *testing.T) {
	resetLog(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing_file", []string{"eval", filepath.Join(t.TempDir(), "missing.yaml")}},
		{"bad_parser", []string{"--parser=nope", "eval"}},
		{"bad_format", []string{"eval", "--format=toml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := runCLI(t, resolve.Empty, tt.args...); err == nil {
				t.Errorf("run(%q) error = nil, want error", tt.args)
			}
		})
	}
}
