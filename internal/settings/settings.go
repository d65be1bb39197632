package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// Account is the academy's payment account shown on every receipt.
type Account struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountHolder string `json:"accountHolder"`
}

// Textbook is one catalog entry editable by an admin.
type Textbook struct {
	Category string `json:"category"`
	Grade    string `json:"grade"`
	Name     string `json:"name" binding:"required"`
	Price    int64  `json:"price"`
}

const (
	accountKey   = "textbook-account"
	textbooksKey = "textbooks"
)

// Repository persists settings documents as JSON rows keyed by name.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// GetAccount returns the stored account, or a zero Account when none
// has been saved yet.
func (r *Repository) GetAccount(ctx context.Context) (Account, error) {
	var acc Account
	if err := r.get(ctx, accountKey, &acc); err != nil {
		return Account{}, err
	}
	return acc, nil
}

// SaveAccount overwrites the stored account.
func (r *Repository) SaveAccount(ctx context.Context, acc Account) error {
	return r.put(ctx, accountKey, acc)
}

// GetTextbooks returns the catalog list, empty when never saved.
func (r *Repository) GetTextbooks(ctx context.Context) ([]Textbook, error) {
	var books []Textbook
	if err := r.get(ctx, textbooksKey, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// SaveTextbooks overwrites the whole catalog list.
func (r *Repository) SaveTextbooks(ctx context.Context, books []Textbook) error {
	return r.put(ctx, textbooksKey, books)
}

func (r *Repository) get(ctx context.Context, key string, dest any) error {
	var raw []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (r *Repository) put(ctx context.Context, key string, val any) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, key, raw, time.Now().UTC())
	return err
}
