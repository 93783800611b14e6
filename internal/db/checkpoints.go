package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/VitalsyncDev/vitalsync-web/internal/models"
)

// GetCheckpoint returns the durable sync checkpoint for a category.
// Returns ErrNotFound when the category has never been checkpointed.
func (db *DB) GetCheckpoint(ctx context.Context, category string) (*models.Checkpoint, error) {
	ctx, span := tracer.Start(ctx, "db.get_checkpoint",
		trace.WithAttributes(attribute.String("sync.category", category)))
	defer span.End()

	query := `SELECT category, last_synced_date, last_sync_at, status, error_message
	          FROM sync_checkpoints WHERE category = $1`

	var cp models.Checkpoint
	var lastSynced, lastSyncAt sql.NullTime
	var errMsg sql.NullString
	err := db.conn.QueryRowContext(ctx, query, category).
		Scan(&cp.Category, &lastSynced, &lastSyncAt, &cp.Status, &errMsg)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get checkpoint: %w", err)
	}

	if lastSynced.Valid {
		d := lastSynced.Time
		cp.LastSyncedDate = &d
	}
	if lastSyncAt.Valid {
		t := lastSyncAt.Time
		cp.LastSyncAt = &t
	}
	if errMsg.Valid {
		m := errMsg.String
		cp.ErrorMessage = &m
	}
	return &cp, nil
}

// LastSyncedDate returns the checkpointed high-water date for a category,
// or ok=false when the category has never completed a sync.
func (db *DB) LastSyncedDate(ctx context.Context, category string) (time.Time, bool, error) {
	cp, err := db.GetCheckpoint(ctx, category)
	if err == ErrNotFound {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	if cp.LastSyncedDate == nil {
		return time.Time{}, false, nil
	}
	return *cp.LastSyncedDate, true, nil
}

// PutCheckpoint durably records sync progress for a category. The row is
// upserted on the category name so the whole checkpoint is replaced
// atomically: date, timestamp, status and error message together.
func (db *DB) PutCheckpoint(ctx context.Context, category string, lastSynced time.Time, status string, errMsg *string) error {
	ctx, span := tracer.Start(ctx, "db.put_checkpoint",
		trace.WithAttributes(
			attribute.String("sync.category", category),
			attribute.String("sync.status", status),
			attribute.String("sync.last_synced_date", lastSynced.Format(time.DateOnly)),
		))
	defer span.End()

	query := `
		INSERT INTO sync_checkpoints (category, last_synced_date, last_sync_at, status, error_message)
		VALUES ($1, $2, NOW(), $3, $4)
		ON CONFLICT (category) DO UPDATE SET
			last_synced_date = $2,
			last_sync_at = NOW(),
			status = $3,
			error_message = $4
	`
	_, err := db.conn.ExecContext(ctx, query, category, lastSynced, status, errMsg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to put checkpoint: %w", err)
	}
	return nil
}

// ListCheckpoints returns every category's durable checkpoint.
func (db *DB) ListCheckpoints(ctx context.Context) ([]models.Checkpoint, error) {
	ctx, span := tracer.Start(ctx, "db.list_checkpoints")
	defer span.End()

	query := `SELECT category, last_synced_date, last_sync_at, status, error_message
	          FROM sync_checkpoints ORDER BY category`
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to query checkpoints: %w", err)
	}
	defer rows.Close()

	var out []models.Checkpoint
	for rows.Next() {
		var cp models.Checkpoint
		var lastSynced, lastSyncAt sql.NullTime
		var errMsg sql.NullString
		if err := rows.Scan(&cp.Category, &lastSynced, &lastSyncAt, &cp.Status, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan checkpoint: %w", err)
		}
		if lastSynced.Valid {
			d := lastSynced.Time
			cp.LastSyncedDate = &d
		}
		if lastSyncAt.Valid {
			t := lastSyncAt.Time
			cp.LastSyncAt = &t
		}
		if errMsg.Valid {
			m := errMsg.String
			cp.ErrorMessage = &m
		}
		out = append(out, cp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating checkpoints: %w", err)
	}
	return out, nil
}

// DeleteCheckpoints removes the checkpoints for the given categories.
// Used by the backfill tool before an unconditional refetch.
func (db *DB) DeleteCheckpoints(ctx context.Context, categories []string) error {
	ctx, span := tracer.Start(ctx, "db.delete_checkpoints")
	defer span.End()

	query := `DELETE FROM sync_checkpoints WHERE category = ANY($1)`
	_, err := db.conn.ExecContext(ctx, query, pq.Array(categories))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to delete checkpoints: %w", err)
	}
	return nil
}
