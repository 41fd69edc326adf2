package module

import (
	"time"

	"starforge/internal/platform/config"
)

// Options holds configuration options for the fact stage
type Options struct {
	InsertChunk int
	Retries     int
	RetryBase   time.Duration
}

// FromConfig reads fact options with the CORE_REFRESH_ prefix
func FromConfig(cfg config.Conf) Options {
	rc := cfg.Prefix("CORE_REFRESH_")
	return Options{
		InsertChunk: rc.MayInt("INSERT_CHUNK", 1000),
		Retries:     rc.MayInt("RETRIES", 3),
		RetryBase:   rc.MayDuration("RETRY_BASE", 250*time.Millisecond),
	}
}
