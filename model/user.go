package model

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the authenticated principal bound to a request. The zero
// value is the anonymous caller.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

var Anonymous = Identity{}

func (i Identity) Authenticated() bool { return i.ID != 0 }

func (i Identity) IsAdmin() bool { return i.Authenticated() && i.Role == RoleAdmin }

// RegisterReq represents the registration payload
// swagger:model RegisterReq
type RegisterReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginReq represents the login payload
// swagger:model LoginReq
type LoginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
