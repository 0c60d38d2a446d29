package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// DirMode is the permission mode for created directories.
const DirMode os.FileMode = 0o700

// Prefix returns the base name used to construct the configuration and cache
// directory paths.
//
// By default, Prefix is the base name of the executable file unless it matches
// one of the following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with Name
//   - "*.test" (go test binaries): replaced with Name
//   - "^\.+" (dot-prefixed names): remove the dot prefix
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		exe, err := os.Executable()
		if err == nil {
			id = exe
		}

		return executablePrefix(id)
	},
)

func executablePrefix(path string) string {
	base := filepath.Base(path)
	if strings.HasSuffix(base, ".test") {
		return Name
	}

	id := strings.TrimSuffix(base, filepath.Ext(base))

	for rex, rep := range map[*regexp.Regexp]string{
		regexp.MustCompile(`^__debug_bin\d*$`): Name, // dlv default output
		regexp.MustCompile(`^\.+`):             "",   // remove leading dot(s)
	} {
		id = rex.ReplaceAllString(id, rep)
	}

	if id == "" {
		return Name
	}

	return id
}

// ConfigDir returns the configuration directory path.
// It is $ENVYAML_CONFIG_DIR when set, otherwise a directory named by [Prefix]
// under the user configuration directory.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string {
		return userDir(os.LookupEnv, EnvPrefix+"CONFIG_DIR", os.UserConfigDir, ".config")
	},
)

// CacheDir returns the cache directory path used for transient files such as
// REPL history and profiles.
// It is $ENVYAML_CACHE_DIR when set, otherwise a directory named by [Prefix]
// under the user cache directory.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string {
		return userDir(os.LookupEnv, EnvPrefix+"CACHE_DIR", os.UserCacheDir, ".cache")
	},
)

// userDir picks a per-user directory. An explicit override from the
// environment wins; then the platform directory; then a dot directory in the
// home directory; then the working directory.
func userDir(
	lookup func(string) (string, bool),
	override string,
	platform func() (string, error),
	dotDir string,
) string {
	if dir, ok := lookup(override); ok && dir != "" {
		return dir
	}

	dir, err := platform()
	if err != nil {
		dir, err = os.UserHomeDir()
		if err == nil {
			dir = filepath.Join(dir, dotDir)
		} else {
			dir, err = os.Getwd()
			if err != nil {
				dir = "."
			}
		}
	}

	return filepath.Join(dir, Prefix())
}
