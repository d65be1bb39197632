package request

import (
	"context"
	"errors"
	"time"
)

// Filter selects records by the derived fully-complete flag.
type Filter string

const (
	FilterIncomplete Filter = "incomplete"
	FilterComplete   Filter = "complete"
)

// Page is one slice of the filtered history listing. OppositeCount is
// the total for the other filter so the UI can badge both tabs from a
// single call.
type Page struct {
	Requests      []Request `json:"requests"`
	TotalCount    int       `json:"totalCount"`
	TotalPages    int       `json:"totalPages"`
	CurrentPage   int       `json:"currentPage"`
	HasNextPage   bool      `json:"hasNextPage"`
	HasPrevPage   bool      `json:"hasPrevPage"`
	OppositeCount int       `json:"oppositeCount"`
}

// Store is the persistence surface the service needs. *Repository
// satisfies it; tests use an in-memory fake.
type Store interface {
	Insert(ctx context.Context, req Request) (Request, error)
	Get(ctx context.Context, id string) (Request, error)
	ListAll(ctx context.Context) ([]Request, error)
	UpdateFields(ctx context.Context, id string, u Update) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (StatusCounts, error)
}

// Service is the record store facade: creation with composite IDs,
// derived-status filtering with pagination, partial updates, deletes.
type Service struct {
	store    Store
	pageSize int
}

// NewService creates a service backed by a store.
func NewService(store Store, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Service{store: store, pageSize: pageSize}
}

// Create validates and stores a new request. The composite ID is
// generated here when the caller did not supply one.
func (s *Service) Create(ctx context.Context, req Request) (Request, error) {
	if req.StudentName == "" || req.BookName == "" {
		return Request{}, errors.New("student and book name required")
	}
	if req.Price < 0 {
		return Request{}, errors.New("price must not be negative")
	}
	now := time.Now().UTC()
	if req.ID == "" {
		req.ID = NewID(req.TeacherName, req.StudentName, req.BookName, now)
	}
	if req.RequestDate == "" {
		req.RequestDate = now.Format("2006-01-02")
	}
	req.CreatedAt = now
	return s.store.Insert(ctx, req)
}

// Get returns a single request.
func (s *Service) Get(ctx context.Context, id string) (Request, error) {
	return s.store.Get(ctx, id)
}

// All returns the full record set, newest first.
func (s *Service) All(ctx context.Context) ([]Request, error) {
	return s.store.ListAll(ctx)
}

// ListFiltered partitions the full record set on the derived
// fully-complete flag and returns the requested page. The backing store
// has no predicate on the derived flag, so the whole set is fetched and
// filtered here on every call. O(total records), accepted for the
// expected volume.
func (s *Service) ListFiltered(ctx context.Context, filter Filter, page, pageSize int) (Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.pageSize
	}
	all, err := s.store.ListAll(ctx)
	if err != nil {
		return Page{}, err
	}

	matched := []Request{}
	opposite := 0
	for _, r := range all {
		complete := r.FullyComplete()
		if (filter == FilterComplete) == complete {
			matched = append(matched, r)
		} else {
			opposite++
		}
	}

	total := len(matched)
	totalPages := (total + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Requests:      matched[start:end],
		TotalCount:    total,
		TotalPages:    totalPages,
		CurrentPage:   page,
		HasNextPage:   page < totalPages,
		HasPrevPage:   page > 1,
		OppositeCount: opposite,
	}, nil
}

// Update merges partial fields into the stored request. Boolean and
// timestamp pairs are supplied together as FlagUpdate values, so the
// pairing invariant holds by construction.
func (s *Service) Update(ctx context.Context, id string, u Update) error {
	return s.store.UpdateFields(ctx, id, u)
}

// SetStatus applies one operator-triggered flag transition and returns
// the updated record.
func (s *Service) SetStatus(ctx context.Context, id string, flag Flag, set bool) (Request, error) {
	u := Update{}
	fu := Mark(set, time.Now().UTC())
	switch flag {
	case FlagRegistered:
		u.Registered = &fu
	case FlagPaid:
		u.Paid = &fu
	case FlagOrdered:
		u.Ordered = &fu
	default:
		return Request{}, errors.New("unknown status flag")
	}
	if err := s.store.UpdateFields(ctx, id, u); err != nil {
		return Request{}, err
	}
	return s.store.Get(ctx, id)
}

// Delete removes the request permanently.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// CountByStatus returns dashboard counts.
func (s *Service) CountByStatus(ctx context.Context) (StatusCounts, error) {
	return s.store.CountByStatus(ctx)
}
