package borrow

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/m4sterbait/GROUP-NI-RAMOS/app/echoServer/jwtx"
	bs "github.com/m4sterbait/GROUP-NI-RAMOS/service/borrow"
	"github.com/m4sterbait/GROUP-NI-RAMOS/service/policy"
	"github.com/m4sterbait/GROUP-NI-RAMOS/util/httpx"
)

type Controller struct {
	Svc bs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /api/borrow
func (h *Controller) Create(c echo.Context) error {
	var req BorrowReq
	if err := c.Bind(&req); err != nil {
		return httpx.Fail(c, http.StatusBadRequest, "invalid JSON")
	}
	if err := h.V.Struct(req); err != nil {
		return httpx.Fail(c, http.StatusBadRequest, "book_id is required")
	}
	ident, err := jwtx.IdentityFromContext(c)
	if err != nil {
		return httpx.Fail(c, http.StatusUnauthorized, "Login required")
	}

	if _, err := h.Svc.Borrow(c.Request().Context(), ident, req.BookID, req.ReturnDate); err != nil {
		switch {
		case errors.Is(err, policy.ErrAuthRequired):
			return httpx.Fail(c, http.StatusUnauthorized, "Login required")
		}
		switch bs.Code(err) {
		case bs.ErrBookNotFound:
			return httpx.Fail(c, http.StatusNotFound, "Book not found")
		case bs.ErrAlreadyBorrowed:
			return httpx.Fail(c, http.StatusConflict, "Book already borrowed")
		default:
			h.Log.Error("borrow", "err", err)
			return httpx.Fail(c, http.StatusInternalServerError, "internal error")
		}
	}
	return httpx.Message(c, http.StatusOK, "Book borrowed successfully.")
}

// PUT /api/borrows/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return httpx.Fail(c, http.StatusBadRequest, "invalid id")
	}
	var req UpdateBorrowReq
	if err := c.Bind(&req); err != nil {
		return httpx.Fail(c, http.StatusBadRequest, "invalid JSON")
	}
	if err := h.V.Struct(req); err != nil {
		return httpx.Fail(c, http.StatusBadRequest, `status must be "returned"`)
	}
	ident, err := jwtx.IdentityFromContext(c)
	if err != nil {
		return httpx.Fail(c, http.StatusUnauthorized, "Login required")
	}

	if err := h.Svc.Return(c.Request().Context(), ident, id); err != nil {
		switch {
		case errors.Is(err, policy.ErrAuthRequired):
			return httpx.Fail(c, http.StatusUnauthorized, "Login required")
		case errors.Is(err, policy.ErrForbidden):
			return httpx.Fail(c, http.StatusForbidden, "forbidden")
		}
		switch bs.Code(err) {
		case bs.ErrRecordNotFound:
			return httpx.Fail(c, http.StatusNotFound, "Record not found")
		default:
			h.Log.Error("borrow return", "err", err)
			return httpx.Fail(c, http.StatusInternalServerError, "internal error")
		}
	}
	return httpx.Message(c, http.StatusOK, "Book returned")
}

// GET /api/borrowed
func (h *Controller) MyHistory(c echo.Context) error {
	ident, err := jwtx.IdentityFromContext(c)
	if err != nil {
		return httpx.Fail(c, http.StatusUnauthorized, "Login required")
	}
	rows, err := h.Svc.HistoryFor(c.Request().Context(), ident)
	if err != nil {
		if errors.Is(err, policy.ErrAuthRequired) {
			return httpx.Fail(c, http.StatusUnauthorized, "Login required")
		}
		h.Log.Error("borrow history", "err", err)
		return httpx.Fail(c, http.StatusInternalServerError, "internal error")
	}
	if rows == nil {
		rows = []bs.HistoryRow{}
	}
	return httpx.OK(c, http.StatusOK, rows)
}
