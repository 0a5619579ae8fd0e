package authsvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/m4sterbait/GROUP-NI-RAMOS/model"
	userrepo "github.com/m4sterbait/GROUP-NI-RAMOS/repository/user"
	"github.com/m4sterbait/GROUP-NI-RAMOS/util/hash"
	"github.com/m4sterbait/GROUP-NI-RAMOS/util/session"
)

type mockRepo struct {
	createFn     func(ctx context.Context, u *model.User) error
	byUsernameFn func(ctx context.Context, username string) (*model.User, error)
}

var _ userrepo.Repo = (*mockRepo)(nil)

func (m *mockRepo) Create(ctx context.Context, u *model.User) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, u)
}

func (m *mockRepo) ByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.byUsernameFn == nil {
		return nil, sql.ErrNoRows
	}
	return m.byUsernameFn(ctx, username)
}

func (m *mockRepo) List(ctx context.Context) ([]model.User, error) { return nil, nil }
func (m *mockRepo) Count(ctx context.Context) (int64, error)       { return 0, nil }

// --- tests ---

func TestRegister_Success(t *testing.T) {
	ctx := context.Background()
	m := &mockRepo{
		createFn: func(ctx context.Context, u *model.User) error {
			u.ID = 42
			return nil
		},
	}
	svc := New(m, "test-secret")

	u, err := svc.Register(ctx, model.RegisterReq{Username: "alice", Password: "supersecret"})
	require.NoError(t, err)
	require.Equal(t, int64(42), u.ID)
	require.Equal(t, "alice", u.Username)
	require.Equal(t, model.RoleStudent, u.Role)
	require.NotEmpty(t, u.PasswordHash)
	require.NotEqual(t, "supersecret", u.PasswordHash)
	require.True(t, hash.Check(u.PasswordHash, "supersecret"))
}

func TestRegister_UsernameTaken(t *testing.T) {
	ctx := context.Background()
	m := &mockRepo{
		createFn: func(ctx context.Context, u *model.User) error {
			return fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation})
		},
	}
	svc := New(m, "test-secret")

	_, err := svc.Register(ctx, model.RegisterReq{Username: "alice", Password: "supersecret"})
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegister_CreateError(t *testing.T) {
	ctx := context.Background()
	m := &mockRepo{
		createFn: func(ctx context.Context, u *model.User) error {
			return errors.New("db down")
		},
	}
	svc := New(m, "test-secret")

	_, err := svc.Register(ctx, model.RegisterReq{Username: "alice", Password: "supersecret"})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrUsernameTaken)
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	pw := "supersecret"
	hashed, err := hash.Password(pw)
	require.NoError(t, err)

	m := &mockRepo{
		byUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: 7, Username: "alice", PasswordHash: hashed, Role: model.RoleStudent}, nil
		},
	}
	svc := New(m, "test-secret")

	ident, token, err := svc.Login(ctx, model.LoginReq{Username: "alice", Password: pw})
	require.NoError(t, err)
	require.Equal(t, int64(7), ident.ID)
	require.Equal(t, model.RoleStudent, ident.Role)
	require.NotEmpty(t, token)

	// the token round-trips to the same identity
	parsed, err := session.Parse(token, "test-secret")
	require.NoError(t, err)
	require.Equal(t, ident, parsed)
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()
	hashed, err := hash.Password("rightpass")
	require.NoError(t, err)

	m := &mockRepo{
		byUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: 7, Username: "alice", PasswordHash: hashed, Role: model.RoleStudent}, nil
		},
	}
	svc := New(m, "test-secret")

	ident, token, err := svc.Login(ctx, model.LoginReq{Username: "alice", Password: "wrongpass"})
	require.ErrorIs(t, err, ErrInvalidCreds)
	require.Equal(t, model.Anonymous, ident)
	require.Empty(t, token)
}

func TestLogin_UnknownUser(t *testing.T) {
	ctx := context.Background()
	m := &mockRepo{
		byUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := New(m, "test-secret")

	// same error as a wrong password, no username enumeration
	_, _, err := svc.Login(ctx, model.LoginReq{Username: "nobody", Password: "whatever"})
	require.ErrorIs(t, err, ErrInvalidCreds)
}
