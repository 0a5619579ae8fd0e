// Package main library lending API.
//
// @title           Library Lending API
// @version         1.0
// @description     Library catalog, accounts and borrow/return ledger.
// @BasePath        /
// @schemes         http
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/m4sterbait/GROUP-NI-RAMOS/app/echoServer"
	adminctrl "github.com/m4sterbait/GROUP-NI-RAMOS/app/echoServer/controller/admin"
	authctrl "github.com/m4sterbait/GROUP-NI-RAMOS/app/echoServer/controller/auth"
	bookctrl "github.com/m4sterbait/GROUP-NI-RAMOS/app/echoServer/controller/book"
	borrowctrl "github.com/m4sterbait/GROUP-NI-RAMOS/app/echoServer/controller/borrow"
	messagectrl "github.com/m4sterbait/GROUP-NI-RAMOS/app/echoServer/controller/message"
	"github.com/m4sterbait/GROUP-NI-RAMOS/app/echoServer/validation"
	"github.com/m4sterbait/GROUP-NI-RAMOS/config"
	bookrepo "github.com/m4sterbait/GROUP-NI-RAMOS/repository/book"
	borrowrepo "github.com/m4sterbait/GROUP-NI-RAMOS/repository/borrow"
	messagerepo "github.com/m4sterbait/GROUP-NI-RAMOS/repository/message"
	userrepo "github.com/m4sterbait/GROUP-NI-RAMOS/repository/user"
	adminsvc "github.com/m4sterbait/GROUP-NI-RAMOS/service/admin"
	authsvc "github.com/m4sterbait/GROUP-NI-RAMOS/service/auth"
	booksvc "github.com/m4sterbait/GROUP-NI-RAMOS/service/book"
	borrowsvc "github.com/m4sterbait/GROUP-NI-RAMOS/service/borrow"
	messagesvc "github.com/m4sterbait/GROUP-NI-RAMOS/service/message"
	"github.com/m4sterbait/GROUP-NI-RAMOS/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	// DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, log); err != nil {
		log.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	// repos
	ur := userrepo.New(db)
	br := bookrepo.New(db)
	lr := borrowrepo.New(db)
	mr := messagerepo.New(db)

	// services
	as := authsvc.New(ur, cfg.SessionSecret)
	bs := booksvc.New(br)
	ls := borrowsvc.New(db, lr, br)
	ms := messagesvc.New(mr)
	ads := adminsvc.New(ur, br, lr)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookC := &bookctrl.Controller{Svc: bs, V: v, Log: log}
	borrowC := &borrowctrl.Controller{Svc: ls, V: v, Log: log}
	messageC := &messagectrl.Controller{Svc: ms, V: v, Log: log}
	adminC := &adminctrl.Controller{Svc: ads, Log: log}

	// overdue sweep: visibility only, nothing is mutated
	sweep := borrowsvc.NewSweeper(lr)
	go func() {
		t := time.NewTicker(time.Hour)
		defer t.Stop()
		for range t.C {
			n, err := sweep.CountOverdue(ctx)
			if err != nil {
				log.Warn("overdue sweep failed", "err", err)
				continue
			}
			if n > 0 {
				log.Info("overdue loans", "count", n)
			}
		}
	}()

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:          authC,
		Book:          bookC,
		Borrow:        borrowC,
		Message:       messageC,
		Admin:         adminC,
		SessionSecret: cfg.SessionSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	slog.Info("starting server", "port", port)

	e.Logger.Fatal(e.Start(":" + port))
}
