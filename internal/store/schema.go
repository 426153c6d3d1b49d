package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// The session archive is rebuilt rather than migrated: any schema change
// bumps the version and asks the user to clear their history.
const schemaVersion = 1

// ErrSchemaMismatch reports a session database written by an incompatible
// release.
var ErrSchemaMismatch = errors.New("session database schema mismatch")

// initSchema bootstraps a fresh database and rejects one written under a
// different schema version.
func (s *Store) initSchema(ctx context.Context) error {
	var initialized bool
	row := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'schema_version')")
	if err := row.Scan(&initialized); err != nil {
		return fmt.Errorf("inspect session database: %w", err)
	}
	if !initialized {
		return s.bootstrap(ctx)
	}

	var version int
	err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: version row missing; remove %s and rescan", ErrSchemaMismatch, s.path)
	}
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: found version %d, this build expects %d (run 'mediadup history clear' or remove the database file)",
			ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

// bootstrap applies the embedded schema and stamps it in one transaction, so
// an interrupted first run leaves no half-built database behind.
func (s *Store) bootstrap(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bootstrap: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply session schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("stamp schema version: %w", err)
	}
	return tx.Commit()
}
