package resolve

import (
	"os"
	"strings"
)

// Env is a read-only view of an environment-variable table.
type Env interface {
	// Lookup returns the value of the named variable and whether it is set.
	Lookup(name string) (string, bool)
}

// EnvFunc adapts a lookup function to [Env].
type EnvFunc func(name string) (string, bool)

// Lookup implements [Env].
func (f EnvFunc) Lookup(name string) (string, bool) {
	if f == nil {
		return "", false
	}

	return f(name)
}

// OS is the process environment.
var OS Env = EnvFunc(os.LookupEnv) //nolint:gochecknoglobals

// Empty is an environment with no variables set.
var Empty Env = Map(nil) //nolint:gochecknoglobals

// Map is an environment backed by a map.
type Map map[string]string

// Lookup implements [Env].
func (m Map) Lookup(name string) (string, bool) {
	v, ok := m[name]

	return v, ok
}

// ParseMap builds a [Map] from "KEY=VALUE" entries.
// Entries without "=" define the key with an empty value.
// Later entries override earlier ones.
func ParseMap(entries ...string) Map {
	m := make(Map, len(entries))

	for _, entry := range entries {
		key, value, _ := strings.Cut(entry, "=")
		m[key] = value
	}

	return m
}

// Overlay searches each environment in order and returns the first hit.
type Overlay []Env

// Lookup implements [Env].
func (o Overlay) Lookup(name string) (string, bool) {
	for _, env := range o {
		if env == nil {
			continue
		}

		if v, ok := env.Lookup(name); ok {
			return v, true
		}
	}

	return "", false
}
