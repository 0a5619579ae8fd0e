package messagesvc

import (
	"context"

	"github.com/m4sterbait/GROUP-NI-RAMOS/model"
	messagerepo "github.com/m4sterbait/GROUP-NI-RAMOS/repository/message"
	"github.com/m4sterbait/GROUP-NI-RAMOS/service/policy"
)

type Service interface {
	// Submit stores a contact-form message; no login needed.
	Submit(ctx context.Context, req model.ContactReq) (*model.Message, error)

	// ListAll returns every stored message, newest first. Admin only.
	ListAll(ctx context.Context, ident model.Identity) ([]model.Message, error)
}

type service struct{ mr messagerepo.Repo }

func New(mr messagerepo.Repo) Service { return &service{mr: mr} }

func (s *service) Submit(ctx context.Context, req model.ContactReq) (*model.Message, error) {
	m := &model.Message{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := s.mr.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) ListAll(ctx context.Context, ident model.Identity) ([]model.Message, error) {
	if err := policy.Authorize(policy.OpListMessages, ident); err != nil {
		return nil, err
	}
	return s.mr.List(ctx)
}
