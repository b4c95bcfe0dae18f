package persistence

import (
	"context"
	"errors"
	"os"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/kruxfinance/support-chat/internal/config"
)

// Badger wraps an embedded badger database.
type Badger struct {
	DB *badger.DB
}

// NewBadger opens (or creates) the database at cfg.Dir. An empty Dir opens an
// in-memory instance.
func NewBadger(cfg config.BadgerConfig, logger *zap.Logger) (*Badger, error) {
	opts := badger.DefaultOptions(cfg.Dir).WithLoggingLevel(badger.WARNING)
	if cfg.Dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLoggingLevel(badger.WARNING)
	} else if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, err
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	logger.Info("opened badger store", zap.String("dir", cfg.Dir))
	return &Badger{DB: db}, nil
}

// Close releases the database.
func (b *Badger) Close() {
	if b != nil && b.DB != nil {
		_ = b.DB.Close()
	}
}

// Ping reports whether the database is open.
func (b *Badger) Ping(_ context.Context) error {
	if b == nil || b.DB == nil {
		return errors.New("badger store not configured")
	}
	if b.DB.IsClosed() {
		return errors.New("badger store closed")
	}
	return nil
}
