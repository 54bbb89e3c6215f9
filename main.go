// Package main online bookstore API.
//
// @title           Digital Online Bookstore API
// @version         1.0
// @description     Campus bookstore: catalog, cart, checkout, delivery, library.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/Siyemukel/Digital-online-bookstore/app/echoServer"
	accountctrl "github.com/Siyemukel/Digital-online-bookstore/app/echoServer/controller/account"
	analyticsctrl "github.com/Siyemukel/Digital-online-bookstore/app/echoServer/controller/analytics"
	authctrl "github.com/Siyemukel/Digital-online-bookstore/app/echoServer/controller/auth"
	bookctrl "github.com/Siyemukel/Digital-online-bookstore/app/echoServer/controller/book"
	cartctrl "github.com/Siyemukel/Digital-online-bookstore/app/echoServer/controller/cart"
	checkoutctrl "github.com/Siyemukel/Digital-online-bookstore/app/echoServer/controller/checkout"
	deliveryctrl "github.com/Siyemukel/Digital-online-bookstore/app/echoServer/controller/delivery"
	libraryctrl "github.com/Siyemukel/Digital-online-bookstore/app/echoServer/controller/library"
	profilectrl "github.com/Siyemukel/Digital-online-bookstore/app/echoServer/controller/profile"
	"github.com/Siyemukel/Digital-online-bookstore/app/echoServer/validation"
	"github.com/Siyemukel/Digital-online-bookstore/config"
	"github.com/Siyemukel/Digital-online-bookstore/db"
	accountrepo "github.com/Siyemukel/Digital-online-bookstore/repository/account"
	bookrepo "github.com/Siyemukel/Digital-online-bookstore/repository/book"
	cartrepo "github.com/Siyemukel/Digital-online-bookstore/repository/cart"
	checkoutrepo "github.com/Siyemukel/Digital-online-bookstore/repository/checkout"
	deliveryrepo "github.com/Siyemukel/Digital-online-bookstore/repository/delivery"
	libraryrepo "github.com/Siyemukel/Digital-online-bookstore/repository/library"
	otprepo "github.com/Siyemukel/Digital-online-bookstore/repository/otp"
	paypalrepo "github.com/Siyemukel/Digital-online-bookstore/repository/paypal"
	purchaserepo "github.com/Siyemukel/Digital-online-bookstore/repository/purchase"
	userrepo "github.com/Siyemukel/Digital-online-bookstore/repository/user"
	accountsvc "github.com/Siyemukel/Digital-online-bookstore/service/account"
	analyticssvc "github.com/Siyemukel/Digital-online-bookstore/service/analytics"
	authsvc "github.com/Siyemukel/Digital-online-bookstore/service/auth"
	booksvc "github.com/Siyemukel/Digital-online-bookstore/service/book"
	cartsvc "github.com/Siyemukel/Digital-online-bookstore/service/cart"
	checkoutsvc "github.com/Siyemukel/Digital-online-bookstore/service/checkout"
	deliverysvc "github.com/Siyemukel/Digital-online-bookstore/service/delivery"
	librarysvc "github.com/Siyemukel/Digital-online-bookstore/service/library"
	profilesvc "github.com/Siyemukel/Digital-online-bookstore/service/profile"
	"github.com/Siyemukel/Digital-online-bookstore/util/database"
	"github.com/Siyemukel/Digital-online-bookstore/util/hash"
	"github.com/Siyemukel/Digital-online-bookstore/util/mailer"
	"github.com/Siyemukel/Digital-online-bookstore/util/redisx"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	conn, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := db.EnsureSchema(ctx, conn); err != nil {
		log.Error("schema apply failed", "err", err)
		os.Exit(1)
	}
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		hashed, err := hash.HashPassword(cfg.AdminPassword)
		if err != nil {
			log.Error("admin seed hash failed", "err", err)
			os.Exit(1)
		}
		if err := db.SeedAdmin(ctx, conn, cfg.AdminEmail, hashed); err != nil {
			log.Error("admin seed failed", "err", err)
			os.Exit(1)
		}
	}

	// redis: OTP codes and pending checkout attempts
	rdb, err := redisx.New(cfg.RedisAddr, cfg.RedisPass)
	if err != nil {
		log.Error("redis connect failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	// mail
	var mail mailer.Mailer
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	} else {
		mail = mailer.NewLog(log)
	}

	// repos
	ur := userrepo.New(conn)
	br := bookrepo.New(conn)
	cr := cartrepo.New(conn)
	pr := purchaserepo.New(conn)
	dr := deliveryrepo.New(conn)
	lr := libraryrepo.New(conn)
	acr := accountrepo.New(conn)
	ppr := paypalrepo.NewHTTP(cfg.PayPalClientID, cfg.PayPalSecret, cfg.PayPalMode)
	attempts := checkoutrepo.NewRedis(rdb)
	otps := otprepo.NewRedis(rdb)

	// services
	as := authsvc.New(conn, ur, otps, mail, log, cfg.JWTSecret)
	bs := booksvc.New(br)
	cs := cartsvc.New(conn, cr)
	chs := checkoutsvc.New(conn, cr, pr, ppr, attempts, cfg.CheckoutReturnURL, cfg.CheckoutCancelURL)
	ds := deliverysvc.New(conn, dr)
	ls := librarysvc.New(lr)
	acs := accountsvc.New(conn, acr)
	prs := profilesvc.New(ur)
	ans := analyticssvc.New(pr)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookC := &bookctrl.Controller{Svc: bs, V: v, Log: log}
	cartC := &cartctrl.Controller{Svc: cs, Log: log}
	checkoutC := &checkoutctrl.Controller{Svc: chs, V: v, Log: log}
	deliveryC := &deliveryctrl.Controller{Svc: ds, V: v, Log: log}
	libraryC := &libraryctrl.Controller{Svc: ls, V: v, Log: log}
	accountC := &accountctrl.Controller{Svc: acs, V: v, Log: log}
	profileC := &profilectrl.Controller{Svc: prs, V: v, Log: log}
	analyticsC := &analyticsctrl.Controller{Svc: ans, Log: log}

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
		Auth:      authC,
		Book:      bookC,
		Cart:      cartC,
		Checkout:  checkoutC,
		Delivery:  deliveryC,
		Library:   libraryC,
		Account:   accountC,
		Profile:   profileC,
		Analytics: analyticsC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "chosen_port", port)

	e.Logger.Fatal(e.Start(":" + port))
}
