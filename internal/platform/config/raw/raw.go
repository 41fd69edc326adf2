// Package raw is the logging-free key reader under config, the logger bootstraps from it
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Lookup resolves a fully qualified key
type Lookup func(key string) (string, bool)

// Conf is a prefixed view over a Lookup
type Conf struct {
	prefix string
	look   Lookup
}

// New reads the process environment
func New() Conf { return Conf{look: os.LookupEnv} }

// FromMap reads m, tests use it instead of mutating the environment
func FromMap(m map[string]string) Conf {
	return Conf{look: func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}}
}

// Prefix appends p to the key prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p, look: c.look} }

// Key is the fully qualified name of k
func (c Conf) Key(k string) string { return c.prefix + k }

// Value is the trimmed value of k, empty when unset
func (c Conf) Value(k string) string {
	if c.look == nil {
		return ""
	}
	v, _ := c.look(c.Key(k))
	return strings.TrimSpace(v)
}

// Get returns the value of key or def
func (c Conf) Get(key, def string) string {
	if v := c.Value(key); v != "" {
		return v
	}
	return def
}

// GetBool accepts strconv bools plus yes/no and on/off
func (c Conf) GetBool(key string, def bool) bool {
	if b, ok := ParseBool(c.Value(key)); ok {
		return b
	}
	return def
}

// GetInt returns def for unset or non integer values
func (c Conf) GetInt(key string, def int) int {
	n, err := strconv.Atoi(c.Value(key))
	if err != nil {
		return def
	}
	return n
}

// ParseBool is strconv.ParseBool widened with yes/no and on/off
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "yes", "on":
		return true, true
	case "no", "off":
		return false, true
	}
	b, err := strconv.ParseBool(s)
	return b, err == nil
}
