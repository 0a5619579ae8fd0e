// app/echoServer/jwtx/identity.go
package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/m4sterbait/GROUP-NI-RAMOS/model"
	"github.com/m4sterbait/GROUP-NI-RAMOS/util/session"
)

// IdentityFromContext rebuilds the session identity the echo-jwt
// middleware verified. Outside a session-gated group it returns the
// anonymous identity with an error.
func IdentityFromContext(c echo.Context) (model.Identity, error) {
	tok, ok := c.Get("user").(*jwt.Token)
	if !ok || tok == nil {
		return model.Anonymous, errors.New("no session token in context")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return model.Anonymous, errors.New("invalid session claims")
	}
	return session.FromClaims(claims)
}
