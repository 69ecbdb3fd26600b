package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// ConceptEntry is one row of the concept_entries table.
type ConceptEntry struct {
	Word      string          `db:"word"`
	Concepts  json.RawMessage `db:"concepts"`
	Position  int             `db:"position"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// ConceptEntryRepository stores dictionary snapshots.
type ConceptEntryRepository interface {
	FindAll(ctx context.Context) ([]ConceptEntry, error)
	Snapshot(ctx context.Context, entries []ConceptEntry) error
}

type DBConceptEntryRepository struct {
	db *sqlx.DB
}

func NewDBConceptEntryRepository(db *sqlx.DB) *DBConceptEntryRepository {
	return &DBConceptEntryRepository{db: db}
}

// FindAll returns every stored entry in dictionary order.
func (r *DBConceptEntryRepository) FindAll(ctx context.Context) ([]ConceptEntry, error) {
	var entries []ConceptEntry
	if err := r.db.SelectContext(ctx, &entries, "SELECT * FROM concept_entries ORDER BY position, word"); err != nil {
		return nil, fmt.Errorf("load all concept entries: %w", err)
	}
	return entries, nil
}

// Snapshot upserts all entries in a single transaction; either every entry is written or none.
func (r *DBConceptEntryRepository) Snapshot(ctx context.Context, entries []ConceptEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db.BeginTxx() > %w", err)
	}
	for _, entry := range entries {
		if _, err := tx.NamedExecContext(ctx,
			"INSERT INTO concept_entries (word, concepts, position) VALUES (:word, :concepts, :position) ON DUPLICATE KEY UPDATE concepts = VALUES(concepts), position = VALUES(position)",
			entry,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert concept entry %s: %w", entry.Word, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx.Commit() > %w", err)
	}
	return nil
}
