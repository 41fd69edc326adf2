package module

import (
	"os"
	"time"

	"starforge/internal/core/validate"
	"starforge/internal/platform/config"
	perr "starforge/internal/platform/errors"
)

// Options holds configuration options for the staging stage
type Options struct {
	Workers     int
	InsertChunk int
	Retries     int
	RetryBase   time.Duration
	Policy      validate.Policy
}

// FromConfig reads staging options with the CORE_REFRESH_ prefix
// POLICY_FILE, when set, is decoded over the default policy and COLLECT_ALL can only switch it on
func FromConfig(cfg config.Conf) (Options, error) {
	rc := cfg.Prefix("CORE_REFRESH_")
	opts := Options{
		Workers:     rc.MayInt("WORKERS", 4),
		InsertChunk: rc.MayInt("INSERT_CHUNK", 1000),
		Retries:     rc.MayInt("RETRIES", 3),
		RetryBase:   rc.MayDuration("RETRY_BASE", 250*time.Millisecond),
		Policy:      validate.DefaultPolicy(),
	}
	if path := rc.MayString("POLICY_FILE", ""); path != "" {
		p, err := LoadPolicyFile(path)
		if err != nil {
			return Options{}, err
		}
		opts.Policy = p
	}
	if rc.MayBool("COLLECT_ALL", false) {
		opts.Policy.CollectAll = true
	}
	return opts, nil
}

// LoadPolicyFile reads a yaml validation policy from path
func LoadPolicyFile(path string) (validate.Policy, error) {
	f, err := os.Open(path)
	if err != nil {
		return validate.Policy{}, perr.Wrapf(err, perr.ErrorCodeNotFound, "staging: open policy %s", path)
	}
	defer f.Close()
	return validate.LoadPolicy(f)
}
