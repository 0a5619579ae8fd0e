package admin

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/m4sterbait/GROUP-NI-RAMOS/app/echoServer/jwtx"
	adminsvc "github.com/m4sterbait/GROUP-NI-RAMOS/service/admin"
	"github.com/m4sterbait/GROUP-NI-RAMOS/service/policy"
	"github.com/m4sterbait/GROUP-NI-RAMOS/util/httpx"
)

type Controller struct {
	Svc adminsvc.Service
	Log *slog.Logger
}

// GET /api/summary
func (h *Controller) Summary(c echo.Context) error {
	ident, _ := jwtx.IdentityFromContext(c)

	s, err := h.Svc.Summary(c.Request().Context(), ident)
	if err != nil {
		return h.fail(c, "summary", err)
	}
	// The dashboard expects the counters at the top level.
	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"totalBooks":    s.TotalBooks,
		"borrowedBooks": s.BorrowedBooks,
		"totalUsers":    s.TotalUsers,
	})
}

// GET /api/users
func (h *Controller) Users(c echo.Context) error {
	ident, _ := jwtx.IdentityFromContext(c)

	users, err := h.Svc.ListUsers(c.Request().Context(), ident)
	if err != nil {
		return h.fail(c, "users list", err)
	}
	if users == nil {
		users = []adminsvc.UserRow{}
	}
	return httpx.OK(c, http.StatusOK, users)
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, policy.ErrAuthRequired):
		return httpx.Fail(c, http.StatusUnauthorized, "Login required")
	case errors.Is(err, policy.ErrForbidden):
		return httpx.Fail(c, http.StatusForbidden, "forbidden")
	default:
		h.Log.Error(op, "err", err)
		return httpx.Fail(c, http.StatusInternalServerError, "internal error")
	}
}
