package leads

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"esklenchen/server/config"
	"esklenchen/server/internal/models"
)

// Store persists captured leads.
type Store interface {
	Save(ctx context.Context, leads []models.Lead) error
	Close() error
}

// Open returns the store selected by cfg.Leads.Store.
func Open(cfg *config.Config, logger *logrus.Logger) (Store, error) {
	switch cfg.Leads.Store {
	case config.LeadStoreFile:
		logger.WithField("dir", cfg.Leads.Dir).Info("Using flat-file lead store")
		return NewFileStore(cfg.Leads.Dir)
	case config.LeadStoreSQLite:
		logger.WithField("path", cfg.Leads.DBPath).Info("Using SQLite lead store")
		return NewSQLStore(cfg.Leads.DBPath)
	default:
		return nil, fmt.Errorf("unknown lead store %q", cfg.Leads.Store)
	}
}
