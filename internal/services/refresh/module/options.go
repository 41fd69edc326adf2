package module

import (
	"time"

	"starforge/internal/platform/config"
	dimmod "starforge/internal/services/dimensions/module"
	factmod "starforge/internal/services/facts/module"
	mirmod "starforge/internal/services/mirror/module"
	stmod "starforge/internal/services/staging/module"
)

// Options holds configuration for the refresh and the stages it drives
type Options struct {
	EnableLeases bool
	LeaseName    string
	LeaseTTL     time.Duration
	RunTimeout   time.Duration
	StageTimeout time.Duration
	DBTimeout    time.Duration
	Schedule     string
	Mirror       bool
	Retries      int
	RetryBase    time.Duration

	Staging    stmod.Options
	Dimensions dimmod.Options
	Facts      factmod.Options
	Mirroring  mirmod.Options
}

// FromConfig reads refresh options with the CORE_REFRESH_ prefix
func FromConfig(cfg config.Conf) (Options, error) {
	rc := cfg.Prefix("CORE_REFRESH_")
	st, err := stmod.FromConfig(cfg)
	if err != nil {
		return Options{}, err
	}
	return Options{
		EnableLeases: rc.MayBool("LEASES", true),
		LeaseName:    rc.MayString("LEASE_NAME", "warehouse"),
		LeaseTTL:     rc.MayDuration("LEASE_TTL", 6*time.Hour),
		RunTimeout:   rc.MayDuration("RUN_TIMEOUT", 0),
		StageTimeout: rc.MayDuration("STAGE_TIMEOUT", 0),
		DBTimeout:    rc.MayDuration("DB_TIMEOUT", 30*time.Second),
		Schedule:     rc.MayString("SCHEDULE", ""),
		Mirror:       rc.MayBool("MIRROR", false),
		Retries:      rc.MayInt("RETRIES", 3),
		RetryBase:    rc.MayDuration("RETRY_BASE", 250*time.Millisecond),
		Staging:      st,
		Dimensions:   dimmod.FromConfig(cfg),
		Facts:        factmod.FromConfig(cfg),
		Mirroring:    mirmod.FromConfig(cfg),
	}, nil
}
