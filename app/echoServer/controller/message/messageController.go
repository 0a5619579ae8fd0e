package message

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/m4sterbait/GROUP-NI-RAMOS/app/echoServer/jwtx"
	"github.com/m4sterbait/GROUP-NI-RAMOS/model"
	messagesvc "github.com/m4sterbait/GROUP-NI-RAMOS/service/message"
	"github.com/m4sterbait/GROUP-NI-RAMOS/service/policy"
	"github.com/m4sterbait/GROUP-NI-RAMOS/util/httpx"
)

type Controller struct {
	Svc messagesvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /api/contact
func (h *Controller) Contact(c echo.Context) error {
	var req model.ContactReq
	if err := c.Bind(&req); err != nil {
		return httpx.Fail(c, http.StatusBadRequest, "invalid JSON")
	}
	if err := h.V.Struct(req); err != nil {
		return httpx.Fail(c, http.StatusBadRequest, "All fields are required.")
	}

	m, err := h.Svc.Submit(c.Request().Context(), req)
	if err != nil {
		h.Log.Error("contact", "err", err)
		return httpx.Fail(c, http.StatusInternalServerError, "internal error")
	}
	return httpx.OK(c, http.StatusCreated, m)
}

// GET /api/messages
func (h *Controller) List(c echo.Context) error {
	ident, _ := jwtx.IdentityFromContext(c)

	msgs, err := h.Svc.ListAll(c.Request().Context(), ident)
	if err != nil {
		switch {
		case errors.Is(err, policy.ErrAuthRequired):
			return httpx.Fail(c, http.StatusUnauthorized, "Login required")
		case errors.Is(err, policy.ErrForbidden):
			return httpx.Fail(c, http.StatusForbidden, "forbidden")
		default:
			h.Log.Error("messages list", "err", err)
			return httpx.Fail(c, http.StatusInternalServerError, "internal error")
		}
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	return httpx.OK(c, http.StatusOK, msgs)
}
