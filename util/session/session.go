package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m4sterbait/GROUP-NI-RAMOS/model"
)

// CookieName is the cookie carrying the signed session token.
const CookieName = "session"

func Issue(secret string, ident model.Identity, ttlHours int) (string, error) {
	claims := jwt.MapClaims{
		"sub":      ident.ID,
		"username": ident.Username,
		"role":     string(ident.Role),
		"exp":      time.Now().Add(time.Duration(ttlHours) * time.Hour).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// Parse verifies a session token and rebuilds the identity it carries.
func Parse(tokenStr, secret string) (model.Identity, error) {
	if tokenStr == "" {
		return model.Anonymous, errors.New("missing token")
	}
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return model.Anonymous, err
	}
	if !tok.Valid {
		return model.Anonymous, errors.New("invalid token")
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return model.Anonymous, errors.New("invalid claims")
	}
	return FromClaims(mc)
}

// FromClaims rebuilds an identity from already-verified claims, e.g. the
// ones the echo-jwt middleware stores on the request context.
func FromClaims(mc jwt.MapClaims) (model.Identity, error) {
	sub, ok := mc["sub"].(float64)
	if !ok || sub <= 0 {
		return model.Anonymous, errors.New("sub missing in claims")
	}
	username, _ := mc["username"].(string)
	role, _ := mc["role"].(string)
	return model.Identity{
		ID:       int64(sub),
		Username: username,
		Role:     model.Role(role),
	}, nil
}
