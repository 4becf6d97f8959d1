package infra

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Vovarama1992/tanky/internal/ports"
)

// RecordRepo: история в Postgres, таблица tanky_history
type RecordRepo struct {
	db    *sql.DB
	limit int
}

func NewRecordRepo(db *sql.DB, limit int) *RecordRepo {
	if limit <= 0 {
		limit = ports.HistoryLimit
	}
	return &RecordRepo{db: db, limit: limit}
}

func (r *RecordRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS tanky_history (
			id         BIGSERIAL PRIMARY KEY,
			ts         TEXT        NOT NULL,
			lang       TEXT        NOT NULL,
			user_text  TEXT        NOT NULL,
			has_image  BOOLEAN     NOT NULL DEFAULT FALSE,
			reply      TEXT        NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

// Push inserts the record and trims the table to the newest rows in one transaction.
func (r *RecordRepo) Push(ctx context.Context, rec ports.LogRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO tanky_history (ts, lang, user_text, has_image, reply, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rec.Timestamp, rec.Lang, rec.User, rec.HasImage, rec.Reply, time.Now()); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM tanky_history
		WHERE id NOT IN (
			SELECT id FROM tanky_history
			ORDER BY id DESC
			LIMIT $1
		)
	`, r.limit); err != nil {
		return fmt.Errorf("trim history: %w", err)
	}

	return tx.Commit()
}

func (r *RecordRepo) Recent(ctx context.Context) ([]ports.LogRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ts, lang, user_text, has_image, reply
		FROM tanky_history
		ORDER BY id DESC
		LIMIT $1
	`, r.limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ports.LogRecord, 0, r.limit)
	for rows.Next() {
		var rec ports.LogRecord
		if err := rows.Scan(&rec.Timestamp, &rec.Lang, &rec.User, &rec.HasImage, &rec.Reply); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
