package echoServer

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	adminctrl "github.com/m4sterbait/GROUP-NI-RAMOS/app/echoServer/controller/admin"
	authctrl "github.com/m4sterbait/GROUP-NI-RAMOS/app/echoServer/controller/auth"
	bookctrl "github.com/m4sterbait/GROUP-NI-RAMOS/app/echoServer/controller/book"
	borrowctrl "github.com/m4sterbait/GROUP-NI-RAMOS/app/echoServer/controller/borrow"
	messagectrl "github.com/m4sterbait/GROUP-NI-RAMOS/app/echoServer/controller/message"
	"github.com/m4sterbait/GROUP-NI-RAMOS/util/session"
)

type C struct {
	Auth          *authctrl.Controller
	Book          *bookctrl.Controller
	Borrow        *borrowctrl.Controller
	Message       *messagectrl.Controller
	Admin         *adminctrl.Controller
	SessionSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/api")
	pub.GET("/books", c.Book.List)
	pub.POST("/register", c.Auth.Register)
	pub.POST("/login", c.Auth.Login)
	pub.POST("/contact", c.Message.Contact)

	// Session-gated; role checks happen in the services via AccessPolicy.
	sess := e.Group("/api")
	sess.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(c.SessionSecret),
		TokenLookup: "cookie:" + session.CookieName + ",header:Authorization",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return jwt.MapClaims{}
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "Login required"})
		},
	}))

	sess.POST("/borrow", c.Borrow.Create)
	sess.GET("/borrowed", c.Borrow.MyHistory)
	sess.POST("/logout", c.Auth.Logout)
	sess.GET("/me", c.Auth.Me)

	// Admin
	sess.POST("/books", c.Book.Create)
	sess.PUT("/books/:id", c.Book.Update)
	sess.DELETE("/books/:id", c.Book.Delete)
	sess.PUT("/borrows/:id", c.Borrow.Update)
	sess.GET("/summary", c.Admin.Summary)
	sess.GET("/users", c.Admin.Users)
	sess.GET("/messages", c.Message.List)
}
