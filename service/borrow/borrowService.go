// Package borrow is the lending ledger: the only code allowed to move a
// book between available and borrowed, always together with the matching
// ledger row and always inside one transaction.
package borrow

import (
	"context"
	"database/sql"
	"errors"

	"github.com/m4sterbait/GROUP-NI-RAMOS/model"
	brepo "github.com/m4sterbait/GROUP-NI-RAMOS/repository/borrow"
	"github.com/m4sterbait/GROUP-NI-RAMOS/service/policy"
)

// errors used by controllers

type ErrCode string

const (
	ErrBookNotFound    ErrCode = "BOOK_NOT_FOUND"
	ErrAlreadyBorrowed ErrCode = "ALREADY_BORROWED"
	ErrRecordNotFound  ErrCode = "RECORD_NOT_FOUND"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts the error code, or "" for uncoded errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// HistoryRow = repository shape
type HistoryRow = brepo.HistoryRow

type Repo interface {
	ClaimBook(ctx context.Context, tx *sql.Tx, bookID int64) error
	ReleaseBook(ctx context.Context, tx *sql.Tx, bookID int64) error
	Insert(ctx context.Context, tx *sql.Tx, userID, bookID int64, returnDate *string) (*model.BorrowRecord, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.BorrowRecord, error)
	MarkReturned(ctx context.Context, tx *sql.Tx, id int64) error
	ListForUser(ctx context.Context, userID int64) ([]HistoryRow, error)
}

type BookFinder interface {
	Get(ctx context.Context, id int64) (*model.Book, error)
}

type Service interface {
	// Borrow lends bookID to ident, due back on returnDate (nil = no due
	// date). Exactly one of N concurrent calls for the same book wins.
	Borrow(ctx context.Context, ident model.Identity, bookID int64, returnDate *string) (*model.BorrowRecord, error)

	// Return marks a ledger entry returned and frees the book. Calling it
	// on an already-returned entry is a no-op.
	Return(ctx context.Context, ident model.Identity, recordID int64) error

	// HistoryFor lists ident's own loans, most recent first.
	HistoryFor(ctx context.Context, ident model.Identity) ([]HistoryRow, error)
}

type service struct {
	db    *sql.DB
	r     Repo
	books BookFinder
}

func New(db *sql.DB, r Repo, books BookFinder) Service {
	return &service{db: db, r: r, books: books}
}

func (s *service) Borrow(ctx context.Context, ident model.Identity, bookID int64, returnDate *string) (rec *model.BorrowRecord, err error) {
	if err = policy.Authorize(policy.OpBorrow, ident); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// The guarded update is the serialization point: of two concurrent
	// borrows only one finds status='available'.
	if err = s.r.ClaimBook(ctx, tx, bookID); err != nil {
		if errors.Is(err, brepo.ErrBookUnavailable) {
			return nil, s.classifyUnavailable(ctx, bookID)
		}
		return nil, err
	}

	rec, err = s.r.Insert(ctx, tx, ident.ID, bookID, returnDate)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return rec, nil
}

// classifyUnavailable runs after a failed claim to tell a missing book
// from a borrowed one.
func (s *service) classifyUnavailable(ctx context.Context, bookID int64) error {
	if _, err := s.books.Get(ctx, bookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrBookNotFound)
		}
		return err
	}
	return makeErr(ErrAlreadyBorrowed)
}

func (s *service) Return(ctx context.Context, ident model.Identity, recordID int64) (err error) {
	if err = policy.Authorize(policy.OpMarkReturned, ident); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rec, err := s.r.GetForUpdate(ctx, tx, recordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrRecordNotFound)
		}
		return err
	}
	if rec.Status == model.BorrowReturned {
		// Second return of the same record: nothing left to do.
		return tx.Commit()
	}

	if err = s.r.MarkReturned(ctx, tx, recordID); err != nil {
		return err
	}
	if err = s.r.ReleaseBook(ctx, tx, rec.BookID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) HistoryFor(ctx context.Context, ident model.Identity) ([]HistoryRow, error) {
	if err := policy.Authorize(policy.OpListOwnLoans, ident); err != nil {
		return nil, err
	}
	return s.r.ListForUser(ctx, ident.ID)
}
