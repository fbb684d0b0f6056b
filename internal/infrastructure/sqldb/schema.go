package sqldb

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/martijn/clientdb/internal/core/repository"
)

type schemaManager struct {
	db *DB
}

func NewSchemaManager(db *DB) repository.SchemaManager {
	return &schemaManager{db: db}
}

func (s *schemaManager) Create(ctx context.Context) error {
	return s.db.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := execAll(ctx, tx, s.db.dialect.dropDDL); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
		if err := execAll(ctx, tx, s.db.dialect.createDDL); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
		return nil
	})
}

func (s *schemaManager) Drop(ctx context.Context) error {
	return s.db.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := execAll(ctx, tx, s.db.dialect.dropDDL); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
		return nil
	})
}

func (s *schemaManager) Ensure(ctx context.Context) error {
	return s.db.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := execAll(ctx, tx, s.db.dialect.createDDL); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
		return nil
	})
}

// execAll runs statements one at a time; not every driver accepts several
// statements in a single Exec.
func execAll(ctx context.Context, tx *sqlx.Tx, statements []string) error {
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
