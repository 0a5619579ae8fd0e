package borrow_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/m4sterbait/GROUP-NI-RAMOS/model"
	brepo "github.com/m4sterbait/GROUP-NI-RAMOS/repository/borrow"
	borrowsvc "github.com/m4sterbait/GROUP-NI-RAMOS/service/borrow"
	"github.com/m4sterbait/GROUP-NI-RAMOS/service/policy"
)

// fakeStore implements the ledger repo and the book finder over an
// in-memory map. ClaimBook reproduces the guarantee of the guarded SQL
// update: check and flip under one lock.
type fakeStore struct {
	mu     sync.Mutex
	books  map[int64]*model.Book
	recs   map[int64]*model.BorrowRecord
	nextID int64
}

func newFakeStore(books ...*model.Book) *fakeStore {
	f := &fakeStore{
		books: make(map[int64]*model.Book),
		recs:  make(map[int64]*model.BorrowRecord),
	}
	for _, b := range books {
		f.books[b.ID] = b
	}
	return f
}

func (f *fakeStore) ClaimBook(_ context.Context, _ *sql.Tx, bookID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.books[bookID]
	if !ok || b.Status != model.BookAvailable {
		return brepo.ErrBookUnavailable
	}
	b.Status = model.BookBorrowed
	return nil
}

func (f *fakeStore) ReleaseBook(_ context.Context, _ *sql.Tx, bookID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.books[bookID]; ok {
		b.Status = model.BookAvailable
	}
	return nil
}

func (f *fakeStore) Insert(_ context.Context, _ *sql.Tx, userID, bookID int64, returnDate *string) (*model.BorrowRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	rec := &model.BorrowRecord{
		ID:         f.nextID,
		BookID:     bookID,
		UserID:     userID,
		BorrowDate: time.Now(),
		ReturnDate: returnDate,
		Status:     model.BorrowActive,
	}
	f.recs[rec.ID] = rec
	return rec, nil
}

func (f *fakeStore) GetForUpdate(_ context.Context, _ *sql.Tx, id int64) (*model.BorrowRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.recs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeStore) MarkReturned(_ context.Context, _ *sql.Tx, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs[id].Status = model.BorrowReturned
	return nil
}

func (f *fakeStore) ListForUser(_ context.Context, userID int64) ([]brepo.HistoryRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []brepo.HistoryRow
	for _, rec := range f.recs {
		if rec.UserID != userID {
			continue
		}
		title := ""
		if b, ok := f.books[rec.BookID]; ok {
			title = b.Title
		}
		out = append(out, brepo.HistoryRow{
			ID:         rec.ID,
			Title:      title,
			BorrowDate: rec.BorrowDate,
			ReturnDate: rec.ReturnDate,
			Status:     string(rec.Status),
		})
	}
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, id int64) (*model.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.books[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) activeLoans(bookID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, rec := range f.recs {
		if rec.BookID == bookID && rec.Status == model.BorrowActive {
			n++
		}
	}
	return n
}

var (
	student = model.Identity{ID: 7, Username: "alice", Role: model.RoleStudent}
	admin   = model.Identity{ID: 1, Username: "admin", Role: model.RoleAdmin}
)

func availableBook(id int64) *model.Book {
	return &model.Book{ID: id, Title: "Calculus", Author: "George B. Thomas", Status: model.BookAvailable}
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestBorrow_Success(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	st := newFakeStore(availableBook(1))
	svc := borrowsvc.New(db, st, st)

	due := "2025-01-01"
	rec, err := svc.Borrow(context.Background(), student, 1, &due)
	require.NoError(t, err)
	require.Equal(t, int64(1), rec.BookID)
	require.Equal(t, student.ID, rec.UserID)
	require.Equal(t, model.BorrowActive, rec.Status)
	require.Equal(t, &due, rec.ReturnDate)

	b, _ := st.Get(context.Background(), 1)
	require.Equal(t, model.BookBorrowed, b.Status)
	require.Equal(t, 1, st.activeLoans(1))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBorrow_AnonymousRejected(t *testing.T) {
	db, _ := newMockDB(t)
	st := newFakeStore(availableBook(1))
	svc := borrowsvc.New(db, st, st)

	_, err := svc.Borrow(context.Background(), model.Anonymous, 1, nil)
	require.ErrorIs(t, err, policy.ErrAuthRequired)
	require.Equal(t, 0, st.activeLoans(1))
}

func TestBorrow_BookNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	st := newFakeStore()
	svc := borrowsvc.New(db, st, st)

	_, err := svc.Borrow(context.Background(), student, 99, nil)
	require.Equal(t, borrowsvc.ErrBookNotFound, borrowsvc.Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBorrow_AlreadyBorrowed(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	st := newFakeStore(availableBook(1))
	svc := borrowsvc.New(db, st, st)

	_, err := svc.Borrow(context.Background(), student, 1, nil)
	require.NoError(t, err)

	other := model.Identity{ID: 8, Username: "bob", Role: model.RoleStudent}
	_, err = svc.Borrow(context.Background(), other, 1, nil)
	require.Equal(t, borrowsvc.ErrAlreadyBorrowed, borrowsvc.Code(err))

	// status=borrowed still backed by exactly one active ledger entry
	require.Equal(t, 1, st.activeLoans(1))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBorrow_ConcurrentSingleWinner(t *testing.T) {
	const n = 16

	db, mock := newMockDB(t)
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < n; i++ {
		mock.ExpectBegin()
	}
	mock.ExpectCommit()
	for i := 0; i < n-1; i++ {
		mock.ExpectRollback()
	}

	st := newFakeStore(availableBook(1))
	svc := borrowsvc.New(db, st, st)

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		ident := model.Identity{ID: int64(100 + i), Username: "u", Role: model.RoleStudent}
		go func() {
			defer wg.Done()
			_, err := svc.Borrow(context.Background(), ident, 1, nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	won, lost := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			won++
		case borrowsvc.Code(err) == borrowsvc.ErrAlreadyBorrowed:
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, won)
	require.Equal(t, n-1, lost)

	b, _ := st.Get(context.Background(), 1)
	require.Equal(t, model.BookBorrowed, b.Status)
	require.Equal(t, 1, st.activeLoans(1))
}

func TestReturn_RoundTrip(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	st := newFakeStore(availableBook(1))
	svc := borrowsvc.New(db, st, st)

	rec, err := svc.Borrow(context.Background(), student, 1, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Return(context.Background(), admin, rec.ID))

	b, _ := st.Get(context.Background(), 1)
	require.Equal(t, model.BookAvailable, b.Status)
	got, _ := st.GetForUpdate(context.Background(), nil, rec.ID)
	require.Equal(t, model.BorrowReturned, got.Status)

	// returning again is a benign no-op
	require.NoError(t, svc.Return(context.Background(), admin, rec.ID))
	b, _ = st.Get(context.Background(), 1)
	require.Equal(t, model.BookAvailable, b.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReturn_StudentForbidden(t *testing.T) {
	db, _ := newMockDB(t)
	st := newFakeStore(availableBook(1))
	svc := borrowsvc.New(db, st, st)

	err := svc.Return(context.Background(), student, 1)
	require.ErrorIs(t, err, policy.ErrForbidden)
}

func TestReturn_RecordNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	st := newFakeStore()
	svc := borrowsvc.New(db, st, st)

	err := svc.Return(context.Background(), admin, 42)
	require.Equal(t, borrowsvc.ErrRecordNotFound, borrowsvc.Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHistory_RequiresLogin(t *testing.T) {
	db, _ := newMockDB(t)
	st := newFakeStore()
	svc := borrowsvc.New(db, st, st)

	_, err := svc.HistoryFor(context.Background(), model.Anonymous)
	require.ErrorIs(t, err, policy.ErrAuthRequired)
}

func TestHistory_OnlyOwnRecords(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	st := newFakeStore(availableBook(1), availableBook(2))
	svc := borrowsvc.New(db, st, st)

	_, err := svc.Borrow(context.Background(), student, 1, nil)
	require.NoError(t, err)
	other := model.Identity{ID: 8, Username: "bob", Role: model.RoleStudent}
	_, err = svc.Borrow(context.Background(), other, 2, nil)
	require.NoError(t, err)

	rows, err := svc.HistoryFor(context.Background(), student)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Calculus", rows[0].Title)
}
