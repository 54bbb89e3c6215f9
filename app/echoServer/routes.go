package echoServer

import (
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Siyemukel/Digital-online-bookstore/app/echoServer/controller/account"
	"github.com/Siyemukel/Digital-online-bookstore/app/echoServer/controller/analytics"
	"github.com/Siyemukel/Digital-online-bookstore/app/echoServer/controller/auth"
	"github.com/Siyemukel/Digital-online-bookstore/app/echoServer/controller/book"
	"github.com/Siyemukel/Digital-online-bookstore/app/echoServer/controller/cart"
	"github.com/Siyemukel/Digital-online-bookstore/app/echoServer/controller/checkout"
	"github.com/Siyemukel/Digital-online-bookstore/app/echoServer/controller/delivery"
	"github.com/Siyemukel/Digital-online-bookstore/app/echoServer/controller/library"
	"github.com/Siyemukel/Digital-online-bookstore/app/echoServer/controller/profile"
)

type C struct {
	Auth      *auth.Controller
	Book      *book.Controller
	Cart      *cart.Controller
	Checkout  *checkout.Controller
	Delivery  *delivery.Controller
	Library   *library.Controller
	Account   *account.Controller
	Profile   *profile.Controller
	Analytics *analytics.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/auth/otp", c.Auth.RequestOTP)
	pub.POST("/auth/otp/verify", c.Auth.VerifyOTP)
	pub.POST("/auth/register", c.Auth.Register)
	pub.POST("/auth/login", c.Auth.Login)

	// Browsing is open: the storefront works without an account.
	pub.GET("/books", c.Book.List)
	pub.GET("/books/latest", c.Book.Latest)
	pub.GET("/books/popular", c.Book.Popular)
	pub.GET("/books/:id", c.Book.Detail)
	pub.GET("/books/:id/cover", c.Book.Cover)
	pub.GET("/books/:id/reviews", c.Library.Reviews)

	// PayPal sends the user back here after the approval screen.
	pub.GET("/checkout/return", c.Checkout.Return)
	pub.GET("/checkout/cancel", c.Checkout.Cancelled)

	// Auth
	guarded := e.Group("/v1")
	guarded.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	guarded.Use(ExtractClaims())

	// Catalog management (staff/admin, guarded in the controller)
	guarded.POST("/books", c.Book.Create)
	guarded.PUT("/books/:id", c.Book.Update)
	guarded.GET("/books/recommended", c.Book.Recommended)

	// Cart (student)
	guarded.GET("/cart", c.Cart.View)
	guarded.POST("/cart/books/:bookId", c.Cart.Add)
	guarded.POST("/cart/items/:id/increase", c.Cart.Increase)
	guarded.POST("/cart/items/:id/decrease", c.Cart.Decrease)
	guarded.DELETE("/cart/items/:id", c.Cart.Remove)
	guarded.DELETE("/cart", c.Cart.Clear)

	// Checkout + orders (student)
	guarded.POST("/checkout", c.Checkout.Start)
	guarded.POST("/checkout/confirm", c.Checkout.Confirm)
	guarded.POST("/checkout/cancel", c.Checkout.Cancel)
	guarded.GET("/orders", c.Checkout.Orders)
	guarded.GET("/orders/:id/items", c.Checkout.OrderItems)

	// Deliveries (role split inside the controller)
	guarded.GET("/deliveries/pending", c.Delivery.Pending)
	guarded.POST("/deliveries/:id/assign", c.Delivery.Assign)
	guarded.GET("/deliveries/my", c.Delivery.MyRoutes)
	guarded.POST("/deliveries/:id/pickup", c.Delivery.ConfirmPickup)
	guarded.POST("/deliveries/:id/complete", c.Delivery.Complete)
	guarded.GET("/deliveries/history", c.Delivery.History)
	guarded.GET("/deliveries/:id", c.Delivery.Track)

	// Library (student)
	guarded.GET("/library", c.Library.MyBooks)
	guarded.GET("/library/:bookId", c.Library.Detail)
	guarded.GET("/library/:bookId/document", c.Library.Read)
	guarded.POST("/library/:bookId/favorite", c.Library.Favorite)
	guarded.POST("/library/:bookId/reviews", c.Library.Review)
	guarded.GET("/favorites", c.Library.Favorites)

	// Profile (student)
	guarded.GET("/profile", c.Profile.Get)
	guarded.PUT("/profile", c.Profile.Update)
	guarded.PUT("/profile/password", c.Profile.ChangePassword)
	guarded.POST("/profile/picture", c.Profile.UploadPicture)
	guarded.GET("/profile/picture", c.Profile.Picture)

	// Staff analytics
	guarded.GET("/analytics", c.Analytics.Summary)

	// Admin account management
	guarded.POST("/accounts/:role", c.Account.Create)
	guarded.GET("/accounts/staff", c.Account.Staff)
	guarded.GET("/accounts/drivers", c.Account.Drivers)
	guarded.DELETE("/accounts/:role/:id", c.Account.Delete)
}
