package modkit

import (
	"starforge/internal/modkit/repokit"
	"starforge/internal/platform/config"
	"starforge/internal/platform/logger"
	"starforge/internal/platform/store"
)

// Deps are the shared handles a module is built from
// PG and CH are nil when their service is disabled, modules fall back to in-memory repos
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}
