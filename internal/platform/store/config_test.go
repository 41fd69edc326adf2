package store

import (
	"testing"
	"time"

	"starforge/internal/platform/config"
)

func TestFromConfig(t *testing.T) {
	t.Setenv("SERVICE_PGSQL_URL", "postgres://u:p@localhost:5432/wh")
	t.Setenv("SERVICE_PGSQL_CONNECT_RETRIES", "2")
	t.Setenv("SERVICE_CLICKHOUSE_ENABLED", "true")
	t.Setenv("SERVICE_CLICKHOUSE_URL", "clickhouse://localhost:9000/wh")

	got := FromConfig(config.New(), "refresh")
	if !got.PG.Enabled || got.PG.URL != "postgres://u:p@localhost:5432/wh" || got.PG.ConnectRetries != 2 {
		t.Fatalf("pg %+v", got.PG)
	}
	if got.PG.PingTimeout != 5*time.Second || got.PG.MaxConns != 4 {
		t.Fatalf("pg defaults %+v", got.PG)
	}
	if !got.CH.Enabled || got.CH.ClientName != "starforge" || got.CH.ClientTag != "refresh" {
		t.Fatalf("ch %+v", got.CH)
	}
}

func TestFromConfig_CHOffByDefault(t *testing.T) {
	t.Setenv("SERVICE_CLICKHOUSE_ENABLED", "")
	if FromConfig(config.New(), "api").CH.Enabled {
		t.Fatal("clickhouse should be opt in")
	}
}
