package store

import "context"

// Migrate creates the tables the service needs. Statements are
// idempotent so every binary can run them at startup.
func (d *DB) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS textbook_requests (
			id             TEXT PRIMARY KEY,
			student_name   TEXT NOT NULL,
			teacher_name   TEXT NOT NULL DEFAULT '',
			request_date   TEXT NOT NULL DEFAULT '',
			book_name      TEXT NOT NULL,
			book_detail    TEXT,
			price          BIGINT NOT NULL DEFAULT 0,
			bank_name      TEXT NOT NULL DEFAULT '',
			account_number TEXT NOT NULL DEFAULT '',
			account_holder TEXT NOT NULL DEFAULT '',
			is_completed   BOOLEAN NOT NULL DEFAULT FALSE,
			completed_at   TIMESTAMPTZ,
			is_paid        BOOLEAN NOT NULL DEFAULT FALSE,
			paid_at        TIMESTAMPTZ,
			is_ordered     BOOLEAN NOT NULL DEFAULT FALSE,
			ordered_at     TIMESTAMPTZ,
			image_url      TEXT,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_textbook_requests_created_at
			ON textbook_requests (created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key        TEXT PRIMARY KEY,
			value      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := d.Client.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
