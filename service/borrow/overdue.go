package borrow

import (
	"context"
	"time"

	brepo "github.com/m4sterbait/GROUP-NI-RAMOS/repository/borrow"
)

// Sweeper reports how many active loans are past their due date. It never
// mutates the ledger; overdue handling stays a librarian decision.
type Sweeper interface {
	CountOverdue(ctx context.Context) (int64, error)
}

type sweeper struct {
	r brepo.Repo
}

func NewSweeper(r brepo.Repo) Sweeper { return &sweeper{r: r} }

func (s *sweeper) CountOverdue(ctx context.Context) (int64, error) {
	return s.r.CountOverdue(ctx, time.Now().UTC())
}
