// repository/borrow/repo.go
package borrow

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/m4sterbait/GROUP-NI-RAMOS/model"
)

// ErrBookUnavailable signals that the conditional status claim matched no
// row: the book is already out (or gone). The service tells the two cases
// apart.
var ErrBookUnavailable = errors.New("book not available")

// HistoryRow is one entry of a user's borrow history, joined with the
// book title.
type HistoryRow struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	BorrowDate time.Time `json:"borrow_date"`
	ReturnDate *string   `json:"return_date,omitempty"`
	Status     string    `json:"status"`
}

type Repo interface {
	// Transition halves; every tx-taking method runs inside the borrow or
	// return transaction owned by the service.
	ClaimBook(ctx context.Context, tx *sql.Tx, bookID int64) error
	ReleaseBook(ctx context.Context, tx *sql.Tx, bookID int64) error
	Insert(ctx context.Context, tx *sql.Tx, userID, bookID int64, returnDate *string) (*model.BorrowRecord, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.BorrowRecord, error)
	MarkReturned(ctx context.Context, tx *sql.Tx, id int64) error

	ListForUser(ctx context.Context, userID int64) ([]HistoryRow, error)
	CountActive(ctx context.Context) (int64, error)
	CountOverdue(ctx context.Context, now time.Time) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

// ClaimBook flips an available book to borrowed in a single guarded
// update. Zero rows affected means the precondition did not hold, so two
// concurrent borrows can never both pass.
func (r *repo) ClaimBook(ctx context.Context, tx *sql.Tx, bookID int64) error {
	const q = `
		UPDATE books
		SET status = 'borrowed'
		WHERE id = $1
		AND status = 'available'`
	res, err := tx.ExecContext(ctx, q, bookID)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return ErrBookUnavailable
	}
	return nil
}

func (r *repo) ReleaseBook(ctx context.Context, tx *sql.Tx, bookID int64) error {
	const q = `
		UPDATE books
		SET status = 'available'
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, bookID)
	return err
}

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, userID, bookID int64, returnDate *string) (*model.BorrowRecord, error) {
	rec := &model.BorrowRecord{
		BookID:     bookID,
		UserID:     userID,
		ReturnDate: returnDate,
		Status:     model.BorrowActive,
	}
	const q = `
		INSERT INTO borrows (book_id, user_id, return_date)
		VALUES ($1, $2, $3)
		RETURNING id, borrow_date`
	if err := tx.QueryRowContext(ctx, q, bookID, userID, returnDate).Scan(&rec.ID, &rec.BorrowDate); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.BorrowRecord, error) {
	const q = `
		SELECT id, book_id, user_id, borrow_date, return_date, status
		FROM borrows
		WHERE id = $1
		FOR UPDATE`
	rec := &model.BorrowRecord{}
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&rec.ID, &rec.BookID, &rec.UserID, &rec.BorrowDate, &rec.ReturnDate, &rec.Status,
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *repo) MarkReturned(ctx context.Context, tx *sql.Tx, id int64) error {
	const q = `
		UPDATE borrows
		SET status = 'returned'
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id)
	return err
}

func (r *repo) ListForUser(ctx context.Context, userID int64) ([]HistoryRow, error) {
	const q = `
		SELECT
			bo.id          AS id,
			b.title        AS title,
			bo.borrow_date AS borrow_date,
			bo.return_date AS return_date,
			bo.status      AS status
		FROM borrows bo
		JOIN books b ON b.id = bo.book_id
		WHERE bo.user_id = $1
		ORDER BY bo.borrow_date DESC, bo.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		var h HistoryRow
		if err := rows.Scan(&h.ID, &h.Title, &h.BorrowDate, &h.ReturnDate, &h.Status); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *repo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM borrows WHERE status = 'borrowed'`,
	).Scan(&n)
	return n, err
}

func (r *repo) CountOverdue(ctx context.Context, now time.Time) (int64, error) {
	const q = `
		SELECT COUNT(*)
		FROM borrows
		WHERE status = 'borrowed'
		AND return_date IS NOT NULL
		AND return_date < $1`
	var n int64
	err := r.db.QueryRowContext(ctx, q, now.Format("2006-01-02")).Scan(&n)
	return n, err
}
