package adminsvc

import (
	"context"

	"github.com/m4sterbait/GROUP-NI-RAMOS/model"
	"github.com/m4sterbait/GROUP-NI-RAMOS/service/policy"
)

// Summary mirrors the dashboard counters.
type Summary struct {
	TotalBooks    int64 `json:"totalBooks"`
	BorrowedBooks int64 `json:"borrowedBooks"`
	TotalUsers    int64 `json:"totalUsers"`
}

// UserRow is the admin-facing user listing shape (username aliased to
// name for the dashboard).
type UserRow struct {
	ID   int64      `json:"id"`
	Name string     `json:"name"`
	Role model.Role `json:"role"`
}

type UserLister interface {
	List(ctx context.Context) ([]model.User, error)
	Count(ctx context.Context) (int64, error)
}

type BookCounter interface {
	Count(ctx context.Context) (int64, error)
}

type LoanCounter interface {
	CountActive(ctx context.Context) (int64, error)
}

type Service interface {
	Summary(ctx context.Context, ident model.Identity) (*Summary, error)
	ListUsers(ctx context.Context, ident model.Identity) ([]UserRow, error)
}

type service struct {
	users UserLister
	books BookCounter
	loans LoanCounter
}

func New(users UserLister, books BookCounter, loans LoanCounter) Service {
	return &service{users: users, books: books, loans: loans}
}

func (s *service) Summary(ctx context.Context, ident model.Identity) (*Summary, error) {
	if err := policy.Authorize(policy.OpSummary, ident); err != nil {
		return nil, err
	}
	books, err := s.books.Count(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.loans.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &Summary{TotalBooks: books, BorrowedBooks: active, TotalUsers: users}, nil
}

func (s *service) ListUsers(ctx context.Context, ident model.Identity) ([]UserRow, error) {
	if err := policy.Authorize(policy.OpListUsers, ident); err != nil {
		return nil, err
	}
	us, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserRow, 0, len(us))
	for _, u := range us {
		out = append(out, UserRow{ID: u.ID, Name: u.Username, Role: u.Role})
	}
	return out, nil
}
