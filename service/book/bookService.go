package booksvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/m4sterbait/GROUP-NI-RAMOS/model"
	"github.com/m4sterbait/GROUP-NI-RAMOS/service/policy"
)

var (
	ErrNotFound = errors.New("book not found")
	// ErrHasActiveLoan blocks deleting a book that is currently out.
	ErrHasActiveLoan = errors.New("book has an active loan")
)

type Repo interface {
	Create(ctx context.Context, title, author, category string) (*model.Book, error)
	Update(ctx context.Context, id int64, title, author, category string) (*model.Book, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*model.Book, error)
	Search(ctx context.Context, q string) ([]model.Book, error)
}

type Service interface {
	Create(ctx context.Context, ident model.Identity, title, author, category string) (*model.Book, error)
	Update(ctx context.Context, ident model.Identity, id int64, title, author, category string) (*model.Book, error)
	Delete(ctx context.Context, ident model.Identity, id int64) error
	Search(ctx context.Context, q string) ([]model.Book, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Create(ctx context.Context, ident model.Identity, title, author, category string) (*model.Book, error) {
	if err := policy.Authorize(policy.OpCatalogEdit, ident); err != nil {
		return nil, err
	}
	return s.r.Create(ctx, title, author, category)
}

func (s *service) Update(ctx context.Context, ident model.Identity, id int64, title, author, category string) (*model.Book, error) {
	if err := policy.Authorize(policy.OpCatalogEdit, ident); err != nil {
		return nil, err
	}
	b, err := s.r.Update(ctx, id, title, author, category)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

func (s *service) Delete(ctx context.Context, ident model.Identity, id int64) error {
	if err := policy.Authorize(policy.OpCatalogEdit, ident); err != nil {
		return err
	}
	err := s.r.Delete(ctx, id)
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	// The guarded delete matched nothing: either the id is unknown or the
	// book is out on loan.
	if _, gerr := s.r.Get(ctx, id); gerr != nil {
		if errors.Is(gerr, sql.ErrNoRows) {
			return ErrNotFound
		}
		return gerr
	}
	return ErrHasActiveLoan
}

func (s *service) Search(ctx context.Context, q string) ([]model.Book, error) {
	return s.r.Search(ctx, q)
}
