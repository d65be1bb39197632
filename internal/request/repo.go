package request

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when no request exists under the given ID.
var ErrNotFound = errors.New("request not found")

// ErrAlreadyExists is returned when an insert collides on the document ID.
var ErrAlreadyExists = errors.New("request id already exists")

// Repository persists textbook requests in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const requestColumns = `id, student_name, teacher_name, request_date, book_name, book_detail,
	price, bank_name, account_number, account_holder,
	is_completed, completed_at, is_paid, paid_at, is_ordered, ordered_at,
	image_url, created_at`

// Insert writes a new request under its own ID.
func (r *Repository) Insert(ctx context.Context, req Request) (Request, error) {
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO textbook_requests (`+requestColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
	`, req.ID, req.StudentName, req.TeacherName, req.RequestDate, req.BookName, req.BookDetail,
		req.Price, req.BankName, req.AccountNumber, req.AccountHolder,
		req.IsCompleted, req.CompletedAt, req.IsPaid, req.PaidAt, req.IsOrdered, req.OrderedAt,
		req.ImageURL, req.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Request{}, ErrAlreadyExists
		}
		return Request{}, err
	}
	return req, nil
}

// Get returns a single request by id.
func (r *Repository) Get(ctx context.Context, id string) (Request, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+requestColumns+` FROM textbook_requests WHERE id = $1
	`, id)
	req, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Request{}, ErrNotFound
	}
	return req, err
}

// ListAll returns every request ordered by creation time descending.
// Derived-status filtering happens in the service layer over this full
// set, so the repo deliberately exposes no partial listing.
func (r *Repository) ListAll(ctx context.Context) ([]Request, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+requestColumns+` FROM textbook_requests ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, req)
	}
	return res, rows.Err()
}

// UpdateFields merges the non-nil fields of u into the stored request.
func (r *Repository) UpdateFields(ctx context.Context, id string, u Update) error {
	if u.IsZero() {
		return nil
	}
	set := []string{}
	args := []any{}
	add := func(col string, val any) {
		args = append(args, val)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if u.StudentName != nil {
		add("student_name", *u.StudentName)
	}
	if u.TeacherName != nil {
		add("teacher_name", *u.TeacherName)
	}
	if u.RequestDate != nil {
		add("request_date", *u.RequestDate)
	}
	if u.BookName != nil {
		add("book_name", *u.BookName)
	}
	if u.BookDetail != nil {
		add("book_detail", *u.BookDetail)
	}
	if u.Price != nil {
		add("price", *u.Price)
	}
	if u.BankName != nil {
		add("bank_name", *u.BankName)
	}
	if u.AccountNumber != nil {
		add("account_number", *u.AccountNumber)
	}
	if u.AccountHolder != nil {
		add("account_holder", *u.AccountHolder)
	}
	if u.ImageURL != nil {
		add("image_url", *u.ImageURL)
	}
	if u.Registered != nil {
		add("is_completed", u.Registered.Set)
		add("completed_at", u.Registered.At)
	}
	if u.Paid != nil {
		add("is_paid", u.Paid.Set)
		add("paid_at", u.Paid.At)
	}
	if u.Ordered != nil {
		add("is_ordered", u.Ordered.Set)
		add("ordered_at", u.Ordered.At)
	}

	args = append(args, id)
	query := "UPDATE textbook_requests SET " + joinClauses(set, ", ") +
		fmt.Sprintf(" WHERE id = $%d", len(args))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the request permanently. It does not touch any
// externally stored receipt image.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM textbook_requests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus aggregates how many records still miss each flag.
func (r *Repository) CountByStatus(ctx context.Context) (StatusCounts, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE NOT is_completed),
			COUNT(*) FILTER (WHERE NOT is_paid),
			COUNT(*) FILTER (WHERE NOT is_ordered),
			COUNT(*)
		FROM textbook_requests
	`)
	var c StatusCounts
	if err := row.Scan(&c.NotRegistered, &c.NotPaid, &c.NotOrdered, &c.Total); err != nil {
		return StatusCounts{}, err
	}
	return c, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (Request, error) {
	var req Request
	var bookDetail, imageURL sql.NullString
	err := row.Scan(&req.ID, &req.StudentName, &req.TeacherName, &req.RequestDate,
		&req.BookName, &bookDetail, &req.Price, &req.BankName, &req.AccountNumber,
		&req.AccountHolder, &req.IsCompleted, &req.CompletedAt, &req.IsPaid, &req.PaidAt,
		&req.IsOrdered, &req.OrderedAt, &imageURL, &req.CreatedAt)
	if err != nil {
		return Request{}, err
	}
	req.BookDetail = bookDetail.String
	req.ImageURL = imageURL.String
	return req, nil
}

func joinClauses(parts []string, sep string) string {
	if len(parts) == 0 {
		return ""
	}
	out := parts[0]
	for i := 1; i < len(parts); i++ {
		out += sep + parts[i]
	}
	return out
}
