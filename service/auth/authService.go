package authsvc

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/m4sterbait/GROUP-NI-RAMOS/model"
	userrepo "github.com/m4sterbait/GROUP-NI-RAMOS/repository/user"
	"github.com/m4sterbait/GROUP-NI-RAMOS/util/hash"
	"github.com/m4sterbait/GROUP-NI-RAMOS/util/session"
)

var (
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCreds covers unknown user and wrong password alike, so the
	// login response never reveals which usernames exist.
	ErrInvalidCreds = errors.New("invalid credentials")
)

type Service interface {
	// Register creates a student account. It does not establish a session.
	Register(ctx context.Context, req model.RegisterReq) (*model.User, error)

	// Login verifies credentials and returns the identity plus a signed
	// session token.
	Login(ctx context.Context, req model.LoginReq) (model.Identity, string, error)
}

type service struct {
	ur     userrepo.Repo
	secret string
}

func New(ur userrepo.Repo, secret string) Service { return &service{ur: ur, secret: secret} }

func (s *service) Register(ctx context.Context, req model.RegisterReq) (*model.User, error) {
	hashed, err := hash.Password(req.Password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Username:     req.Username,
		PasswordHash: hashed,
		Role:         model.RoleStudent,
	}
	if err := s.ur.Create(ctx, u); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (model.Identity, string, error) {
	u, err := s.ur.ByUsername(ctx, req.Username)
	if err != nil {
		return model.Anonymous, "", ErrInvalidCreds
	}
	if !hash.Check(u.PasswordHash, req.Password) {
		return model.Anonymous, "", ErrInvalidCreds
	}

	ident := model.Identity{ID: u.ID, Username: u.Username, Role: u.Role}
	token, err := session.Issue(s.secret, ident, 24)
	if err != nil {
		return model.Anonymous, "", err
	}
	return ident, token, nil
}
