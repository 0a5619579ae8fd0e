package messagerepo

import (
	"context"
	"database/sql"

	"github.com/m4sterbait/GROUP-NI-RAMOS/model"
)

type Repo interface {
	Create(ctx context.Context, m *model.Message) error
	List(ctx context.Context) ([]model.Message, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, m *model.Message) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO messages (name, email, subject, message)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at`,
		m.Name, m.Email, m.Subject, m.Message,
	).Scan(&m.ID, &m.CreatedAt)
}

func (r *repo) List(ctx context.Context) ([]model.Message, error) {
	const q = `
		SELECT id, name, email, subject, message, created_at
		FROM messages
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
