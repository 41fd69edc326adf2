// Package config reads service settings from prefixed environment keys
//
// Bad values never stop a process: May* logs a warning and falls back to the
// default. Keys a command cannot run without go through Require.
package config

import (
	"strconv"
	"strings"
	"time"

	"starforge/internal/platform/config/raw"
	perr "starforge/internal/platform/errors"
	"starforge/internal/platform/logger"
)

// Conf is a prefixed view over the environment, e.g. cfg.Prefix("CORE_REFRESH_")
type Conf struct{ r raw.Conf }

// New reads the process environment
func New() Conf { return Conf{r: raw.New()} }

// FromMap reads m instead of the environment
func FromMap(m map[string]string) Conf { return Conf{r: raw.FromMap(m)} }

// Prefix returns a child view
func (c Conf) Prefix(p string) Conf { return Conf{r: c.r.Prefix(p)} }

// Key is the fully qualified name of k
func (c Conf) Key(k string) string { return c.r.Key(k) }

func (c Conf) invalid(key, val, want string) {
	logger.Named("config").Warn().Str("key", c.Key(key)).Str("value", val).Msgf("invalid %s; using default", want)
}

// Require fails with one error naming every missing key
func (c Conf) Require(keys ...string) error {
	var missing []string
	for _, k := range keys {
		if c.r.Value(k) == "" {
			missing = append(missing, c.Key(k))
		}
	}
	if len(missing) > 0 {
		return perr.InvalidArgf("config: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// MayString returns the value or def
func (c Conf) MayString(key, def string) string { return c.r.Get(key, def) }

// MayInt returns the value or def
func (c Conf) MayInt(key string, def int) int {
	s := c.r.Value(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		c.invalid(key, s, "int")
		return def
	}
	return n
}

// MayBool returns the value or def, yes/no and on/off are accepted
func (c Conf) MayBool(key string, def bool) bool {
	s := c.r.Value(key)
	if s == "" {
		return def
	}
	b, ok := raw.ParseBool(s)
	if !ok {
		c.invalid(key, s, "bool")
		return def
	}
	return b
}

// MayDuration returns the value or def; "0" disables a timeout
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	s := c.r.Value(key)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		c.invalid(key, s, "duration")
		return def
	}
	return d
}

// MayCSV splits a comma separated value, blanks dropped
func (c Conf) MayCSV(key string, def []string) []string {
	var out []string
	for _, p := range strings.Split(c.r.Value(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayAddr is a listen address; a bare port such as "4000" becomes ":4000"
func (c Conf) MayAddr(key, def string) string {
	s := c.r.Value(key)
	if s == "" {
		return def
	}
	if p, err := strconv.Atoi(s); err == nil {
		if p < 1 || p > 65535 {
			c.invalid(key, s, "port")
			return def
		}
		return ":" + s
	}
	return s
}
