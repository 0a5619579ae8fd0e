package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/m4sterbait/GROUP-NI-RAMOS/app/echoServer/jwtx"
	"github.com/m4sterbait/GROUP-NI-RAMOS/model"
	authsvc "github.com/m4sterbait/GROUP-NI-RAMOS/service/auth"
	"github.com/m4sterbait/GROUP-NI-RAMOS/util/httpx"
	"github.com/m4sterbait/GROUP-NI-RAMOS/util/session"
)

type Controller struct {
	Svc authsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// Register a new student account
// @Summary      Register
// @Description  Register a new student account; usernames are unique
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  model.RegisterReq  true  "Register payload"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      409  {object}  map[string]any "username already taken"
// @Router       /api/register [post]
func (ct *Controller) Register(c echo.Context) error {
	var req model.RegisterReq
	if err := c.Bind(&req); err != nil {
		ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return httpx.Fail(c, http.StatusBadRequest, "invalid body")
	}
	if err := ct.V.Struct(req); err != nil {
		ct.Log.Warn("validation failed", "path", c.Path(), "err", err)
		return httpx.Fail(c, http.StatusBadRequest, "All fields required.")
	}

	if _, err := ct.Svc.Register(c.Request().Context(), req); err != nil {
		switch err {
		case authsvc.ErrUsernameTaken:
			return httpx.Fail(c, http.StatusConflict, "Username already exists. Please choose another.")
		default:
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			ct.Log.Error("register failed", "err", err, "req_id", rid, "path", c.Path())
			return httpx.Fail(c, http.StatusInternalServerError, "register failed")
		}
	}
	return httpx.Message(c, http.StatusCreated, "Registration successful. Please login.")
}

// Login
// @Summary      Login
// @Description  Login with username + password; sets the session cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  model.LoginReq  true  "Login payload"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Router       /api/login [post]
func (ct *Controller) Login(c echo.Context) error {
	var req model.LoginReq
	if err := c.Bind(&req); err != nil {
		ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return httpx.Fail(c, http.StatusBadRequest, "invalid body")
	}
	if err := ct.V.Struct(req); err != nil {
		ct.Log.Warn("validation failed", "path", c.Path(), "err", err)
		return httpx.Fail(c, http.StatusBadRequest, "All fields required.")
	}

	ident, token, err := ct.Svc.Login(c.Request().Context(), req)
	if err != nil {
		switch err {
		case authsvc.ErrInvalidCreds:
			return httpx.Fail(c, http.StatusUnauthorized, "Invalid credentials")
		default:
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			ct.Log.Error("login failed", "err", err, "req_id", rid, "path", c.Path())
			return httpx.Fail(c, http.StatusInternalServerError, "login failed")
		}
	}

	c.SetCookie(sessionCookie(token, 24*time.Hour))
	return httpx.OK(c, http.StatusOK, ident)
}

// Logout clears the session cookie.
func (ct *Controller) Logout(c echo.Context) error {
	c.SetCookie(sessionCookie("", -time.Hour))
	return httpx.Message(c, http.StatusOK, "Logged out")
}

// Me returns the identity bound to the current session.
func (ct *Controller) Me(c echo.Context) error {
	ident, err := jwtx.IdentityFromContext(c)
	if err != nil {
		return httpx.Fail(c, http.StatusUnauthorized, "Not logged in")
	}
	return httpx.OK(c, http.StatusOK, ident)
}

func sessionCookie(token string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
