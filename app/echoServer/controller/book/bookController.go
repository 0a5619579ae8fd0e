package book

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/m4sterbait/GROUP-NI-RAMOS/app/echoServer/jwtx"
	"github.com/m4sterbait/GROUP-NI-RAMOS/model"
	booksvc "github.com/m4sterbait/GROUP-NI-RAMOS/service/book"
	"github.com/m4sterbait/GROUP-NI-RAMOS/service/policy"
	"github.com/m4sterbait/GROUP-NI-RAMOS/util/httpx"
)

type Controller struct {
	Svc booksvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /api/books?q=
func (h *Controller) List(c echo.Context) error {
	books, err := h.Svc.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		h.Log.Error("book search", "err", err)
		return httpx.Fail(c, http.StatusInternalServerError, "internal error")
	}
	if books == nil {
		books = []model.Book{}
	}
	return httpx.OK(c, http.StatusOK, books)
}

// POST /api/books
func (h *Controller) Create(c echo.Context) error {
	var req BookReq
	if err := c.Bind(&req); err != nil {
		return httpx.Fail(c, http.StatusBadRequest, "invalid JSON")
	}
	if err := h.V.Struct(req); err != nil {
		return httpx.Fail(c, http.StatusBadRequest, "Title and author are required.")
	}
	ident, _ := jwtx.IdentityFromContext(c)

	b, err := h.Svc.Create(c.Request().Context(), ident, req.Title, req.Author, req.Category)
	if err != nil {
		return h.fail(c, "book create", err)
	}
	return httpx.OK(c, http.StatusCreated, b)
}

// PUT /api/books/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return httpx.Fail(c, http.StatusBadRequest, "invalid id")
	}
	var req BookReq
	if err := c.Bind(&req); err != nil {
		return httpx.Fail(c, http.StatusBadRequest, "invalid JSON")
	}
	if err := h.V.Struct(req); err != nil {
		return httpx.Fail(c, http.StatusBadRequest, "Title and author are required.")
	}
	ident, _ := jwtx.IdentityFromContext(c)

	b, err := h.Svc.Update(c.Request().Context(), ident, id, req.Title, req.Author, req.Category)
	if err != nil {
		return h.fail(c, "book update", err)
	}
	return httpx.OK(c, http.StatusOK, b)
}

// DELETE /api/books/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return httpx.Fail(c, http.StatusBadRequest, "invalid id")
	}
	ident, _ := jwtx.IdentityFromContext(c)

	if err := h.Svc.Delete(c.Request().Context(), ident, id); err != nil {
		return h.fail(c, "book delete", err)
	}
	return httpx.Message(c, http.StatusOK, "Book deleted")
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, policy.ErrAuthRequired):
		return httpx.Fail(c, http.StatusUnauthorized, "Login required")
	case errors.Is(err, policy.ErrForbidden):
		return httpx.Fail(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, booksvc.ErrNotFound):
		return httpx.Fail(c, http.StatusNotFound, "Book not found")
	case errors.Is(err, booksvc.ErrHasActiveLoan):
		return httpx.Fail(c, http.StatusConflict, "Book has an active loan")
	default:
		h.Log.Error(op, "err", err)
		return httpx.Fail(c, http.StatusInternalServerError, "internal error")
	}
}
