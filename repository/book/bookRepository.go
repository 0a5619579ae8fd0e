package bookrepo

import (
	"context"
	"database/sql"

	"github.com/m4sterbait/GROUP-NI-RAMOS/model"
)

type Repo interface {
	Create(ctx context.Context, title, author, category string) (*model.Book, error)
	Update(ctx context.Context, id int64, title, author, category string) (*model.Book, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*model.Book, error)
	Search(ctx context.Context, q string) ([]model.Book, error)
	Count(ctx context.Context) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, title, author, category string) (*model.Book, error) {
	b := &model.Book{Title: title, Author: author, Category: category, Status: model.BookAvailable}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO books (title, author, category)
		VALUES ($1,$2,$3)
		RETURNING id, created_at`,
		title, author, category,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) Update(ctx context.Context, id int64, title, author, category string) (*model.Book, error) {
	// Status is deliberately untouched here; only the ledger moves it.
	res, err := r.db.ExecContext(ctx, `
		UPDATE books
		SET title = $2, author = $3, category = $4
		WHERE id = $1`,
		id, title, author, category,
	)
	if err != nil {
		return nil, err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return nil, sql.ErrNoRows
	}
	return r.Get(ctx, id)
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	// Refuses while the book is out on loan; historical borrow rows keep
	// their book_id after a legitimate delete.
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM books
		WHERE id = $1
		AND status <> 'borrowed'`,
		id,
	)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) Get(ctx context.Context, id int64) (*model.Book, error) {
	b := &model.Book{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, author, category, status, created_at
		FROM books
		WHERE id = $1`,
		id,
	).Scan(&b.ID, &b.Title, &b.Author, &b.Category, &b.Status, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) Search(ctx context.Context, q string) ([]model.Book, error) {
	const base = `
		SELECT id, title, author, category, status, created_at
		FROM books`
	const order = `
		ORDER BY created_at DESC, id DESC`

	var (
		rows *sql.Rows
		err  error
	)
	if q == "" {
		rows, err = r.db.QueryContext(ctx, base+order)
	} else {
		like := "%" + q + "%"
		rows, err = r.db.QueryContext(ctx, base+`
		WHERE title ILIKE $1 OR author ILIKE $1 OR category ILIKE $1`+order, like)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Category, &b.Status, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&n)
	return n, err
}
