package pkg

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "envyaml" {
		t.Errorf("Expected Name to be %q, got %q", "envyaml", Name)
	}

	if EnvPrefix != "ENVYAML_" {
		t.Errorf("Expected EnvPrefix to be %q, got %q", "ENVYAML_", EnvPrefix)
	}
}

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version)
	}

	if !regexp.MustCompile(`^\d+\.\d+\.\d+`).MatchString(Version) {
		t.Errorf("Version %q is not semantic", Version)
	}
}

func TestAuthor(t *testing.T) {
	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Errorf("Expected Author to contain ardnew, got %v", Author)
	}

	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestExecutablePrefix(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/usr/bin/envyaml", "envyaml"},
		{"/opt/tools/cfg", "cfg"},
		{"/usr/local/bin/envyaml.exe", "envyaml"},
		{"/tmp/__debug_bin1234", Name},
		{"/tmp/go-build/cli.test", Name},
		{"/home/u/.envyaml", "envyaml"},
		{"/home/u/...", Name},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := executablePrefix(filepath.FromSlash(tt.path)); got != tt.want {
				t.Errorf("executablePrefix(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestUserDir(t *testing.T) {
	lookup := func(env map[string]string) func(string) (string, bool) {
		return func(k string) (string, bool) {
			v, ok := env[k]

			return v, ok
		}
	}

	ok := func() (string, error) { return "/platform", nil }
	fail := func() (string, error) { return "", errors.New("unset") }

	if got := userDir(lookup(map[string]string{"X": "/override"}), "X", ok, ".config"); got != "/override" {
		t.Errorf("override: got %q", got)
	}

	if got := userDir(lookup(map[string]string{"X": ""}), "X", ok, ".config"); got != filepath.Join("/platform", Prefix()) {
		t.Errorf("empty override: got %q", got)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := userDir(lookup(nil), "X", fail, ".config"); got != filepath.Join(home, ".config", Prefix()) {
		t.Errorf("home fallback: got %q", got)
	}
}
