package db

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/VitalsyncDev/vitalsync-web/internal/models"
)

// CreateJournalEntry inserts a new journal entry and returns it with its
// assigned ID and timestamps.
func (db *DB) CreateJournalEntry(ctx context.Context, e *models.JournalEntry) (*models.JournalEntry, error) {
	ctx, span := tracer.Start(ctx, "db.create_journal_entry")
	defer span.End()

	query := `
		INSERT INTO journal (entry_date, category, content, rating, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, entry_date, category, content, rating, tags, created_at, updated_at
	`
	var out models.JournalEntry
	err := db.conn.QueryRowContext(ctx, query, e.EntryDate, e.Category, e.Content, e.Rating, e.Tags).
		Scan(&out.ID, &out.EntryDate, &out.Category, &out.Content, &out.Rating, &out.Tags, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to create journal entry: %w", err)
	}
	return &out, nil
}

// GetJournalEntry returns one journal entry by ID.
func (db *DB) GetJournalEntry(ctx context.Context, id int64) (*models.JournalEntry, error) {
	ctx, span := tracer.Start(ctx, "db.get_journal_entry",
		trace.WithAttributes(attribute.Int64("journal.id", id)))
	defer span.End()

	query := `SELECT id, entry_date, category, content, rating, tags, created_at, updated_at
	          FROM journal WHERE id = $1`
	var out models.JournalEntry
	err := db.conn.QueryRowContext(ctx, query, id).
		Scan(&out.ID, &out.EntryDate, &out.Category, &out.Content, &out.Rating, &out.Tags, &out.CreatedAt, &out.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get journal entry: %w", err)
	}
	return &out, nil
}

// ListJournalEntries returns entries newest-first, optionally filtered by category.
func (db *DB) ListJournalEntries(ctx context.Context, category string, limit, offset int) ([]models.JournalEntry, error) {
	ctx, span := tracer.Start(ctx, "db.list_journal_entries")
	defer span.End()

	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, entry_date, category, content, rating, tags, created_at, updated_at
		FROM journal
		WHERE ($1 = '' OR category = $1)
		ORDER BY entry_date DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := db.conn.QueryContext(ctx, query, category, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	var out []models.JournalEntry
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(&e.ID, &e.EntryDate, &e.Category, &e.Content, &e.Rating, &e.Tags, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal entries: %w", err)
	}
	return out, nil
}

// JournalUpdate carries the fields to change on an entry. Nil fields are
// left untouched.
type JournalUpdate struct {
	EntryDate *string
	Category  *string
	Content   *string
	Rating    *int
	Tags      *string
}

// UpdateJournalEntry applies a partial update and returns the new row.
func (db *DB) UpdateJournalEntry(ctx context.Context, id int64, u JournalUpdate) (*models.JournalEntry, error) {
	ctx, span := tracer.Start(ctx, "db.update_journal_entry",
		trace.WithAttributes(attribute.Int64("journal.id", id)))
	defer span.End()

	query := `
		UPDATE journal SET
			entry_date = COALESCE($2::date, entry_date),
			category = COALESCE($3, category),
			content = COALESCE($4, content),
			rating = COALESCE($5, rating),
			tags = COALESCE($6, tags),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, entry_date, category, content, rating, tags, created_at, updated_at
	`
	var out models.JournalEntry
	err := db.conn.QueryRowContext(ctx, query, id, u.EntryDate, u.Category, u.Content, u.Rating, u.Tags).
		Scan(&out.ID, &out.EntryDate, &out.Category, &out.Content, &out.Rating, &out.Tags, &out.CreatedAt, &out.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to update journal entry: %w", err)
	}
	return &out, nil
}

// DeleteJournalEntry removes an entry by ID.
func (db *DB) DeleteJournalEntry(ctx context.Context, id int64) error {
	ctx, span := tracer.Start(ctx, "db.delete_journal_entry",
		trace.WithAttributes(attribute.Int64("journal.id", id)))
	defer span.End()

	res, err := db.conn.ExecContext(ctx, `DELETE FROM journal WHERE id = $1`, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to delete journal entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
