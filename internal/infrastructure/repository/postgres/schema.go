package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/riskibarqy/commishbot/db/migrations"
	"github.com/riskibarqy/commishbot/internal/platform/logging"
)

// SchemaMigrator applies the embedded migrations. Applying is idempotent so
// every precompute run may call EnsureSchema.
type SchemaMigrator struct {
	dbURL  string
	logger *logging.Logger

	mu      sync.Mutex
	applied bool
}

func NewSchemaMigrator(dbURL string, logger *logging.Logger) *SchemaMigrator {
	if logger == nil {
		logger = logging.Default()
	}
	return &SchemaMigrator{dbURL: dbURL, logger: logger}
}

func (m *SchemaMigrator) EnsureSchema(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.applied {
		return nil
	}

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}
	mg, err := migrate.NewWithSourceInstance("iofs", src, m.dbURL)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := mg.Close()
		if srcErr != nil || dbErr != nil {
			m.logger.Warn("close migrator", "source_error", srcErr, "db_error", dbErr)
		}
	}()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			mg.GracefulStop <- true
		case <-done:
		}
	}()

	if err := mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := mg.Version()
	if err == nil {
		m.logger.InfoContext(ctx, "draft schema ready", "version", version, "dirty", dirty)
	}
	m.applied = true
	return nil
}
