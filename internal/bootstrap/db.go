package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/skyproperties/sky-backend/config"
	"github.com/skyproperties/sky-backend/internal/audit"
)

type DBOptions struct {
	ConnectTO time.Duration
	Migrate   bool
}

// OpenAudit connects to the audit database and prepares its table. It
// returns nil when no audit database is configured.
func OpenAudit(ctx context.Context, cfg *config.AuditConfig, opt DBOptions) (*audit.Store, func() error, error) {
	if !cfg.Enabled() {
		return nil, func() error { return nil }, nil
	}
	if opt.ConnectTO == 0 {
		opt.ConnectTO = 5 * time.Second
	}

	cctx, cancel := context.WithTimeout(ctx, opt.ConnectTO)
	defer cancel()

	db, err := audit.Open(cctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("audit db: %w", err)
	}

	store := audit.NewStore(db)
	if opt.Migrate {
		if err := store.Migrate(cctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}
	return store, db.Close, nil
}
