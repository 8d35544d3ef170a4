package routes

import (
	"net/http"

	"andariego/auth"
	"andariego/cart"
	"andariego/dashboard"
	"andariego/filemgr"
	"andariego/middleware"
	"andariego/offers"
	"andariego/orders"
	"andariego/ratelim"
	"andariego/tours"
	"andariego/transport"
	"andariego/users"

	"github.com/julienschmidt/httprouter"
)

// Deps bundles the constructed handler components routes need. Everything
// else registers plain package-level handlers.
type Deps struct {
	Auth     *middleware.Auth
	RateLim  *ratelim.RateLimiter
	AuthSvc  *auth.Service
	Orders   *orders.Handler
	OrderHub *orders.Hub
	Uploader *filemgr.Uploader
}

func AddStaticRoutes(router *httprouter.Router, tourPicDir string) {
	router.ServeFiles("/static/tourpic/*filepath", http.Dir(tourPicDir))
}

func AddAuthRoutes(router *httprouter.Router, d Deps) {
	router.POST("/api/auth/register", d.RateLim.Limit(d.AuthSvc.Register))
	router.POST("/api/auth/login", d.RateLim.Limit(d.AuthSvc.Login))
	router.POST("/api/auth/token/refresh", d.RateLim.Limit(d.AuthSvc.RefreshToken))
	router.POST("/api/auth/logout", d.Auth.Authenticate(d.AuthSvc.Logout))
}

func AddTourRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/tours", tours.GetTours)
	router.GET("/api/tours/:tourid", tours.GetTour)
	router.GET("/api/tours-by-slug/:slug", tours.GetTourBySlug)
	router.POST("/api/tours", d.Auth.RequireAdmin(tours.CreateTour))
	router.PUT("/api/tours/:tourid", d.Auth.RequireAdmin(tours.EditTour))
	router.DELETE("/api/tours/:tourid", d.Auth.RequireAdmin(tours.DeleteTour))
	router.POST("/api/tours/:tourid/image", d.Auth.RequireAdmin(d.Uploader.UploadTourImage))
}

func AddTransportRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/transports", transport.GetTransports)
	router.GET("/api/transports/:transportid", transport.GetTransport)
	router.POST("/api/transports", d.Auth.RequireAdmin(transport.CreateTransport))
	router.PUT("/api/transports/:transportid", d.Auth.RequireAdmin(transport.EditTransport))
	router.DELETE("/api/transports/:transportid", d.Auth.RequireAdmin(transport.DeleteTransport))
}

func AddOfferRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/offers", offers.GetOffers)
	router.GET("/api/offers/:offerid", offers.GetOffer)
	router.POST("/api/offers", d.Auth.RequireAdmin(offers.CreateOffer))
	router.PUT("/api/offers/:offerid", d.Auth.RequireAdmin(offers.EditOffer))
	router.DELETE("/api/offers/:offerid", d.Auth.RequireAdmin(offers.DeleteOffer))
}

func AddCartRoutes(router *httprouter.Router, d Deps) {
	router.POST("/api/cart", d.RateLim.Limit(d.Auth.Authenticate(cart.AddToCart)))
	router.GET("/api/cart", d.Auth.Authenticate(cart.GetCarts))
	router.GET("/api/cart/:cartid", cart.GetCart)
	router.PUT("/api/cart/:cartid", d.RateLim.Limit(d.Auth.Authenticate(cart.UpdateCart)))
	router.DELETE("/api/cart/:cartid", d.Auth.Authenticate(cart.RemoveCart))
	router.DELETE("/api/cart/:cartid/items/:tourid", d.Auth.Authenticate(cart.RemoveCartItem))
	router.PATCH("/api/cart/:cartid/items/:tourid", d.Auth.Authenticate(cart.UpdateCartItem))
}

func AddOrderRoutes(router *httprouter.Router, d Deps) {
	router.POST("/api/orders", d.RateLim.Limit(d.Auth.Authenticate(d.Orders.CreateOrder)))
	router.GET("/api/orders", d.Auth.Authenticate(d.Orders.GetOrders))
	router.GET("/api/orders/:orderid", d.Auth.Authenticate(d.Orders.GetOrder))
	router.PATCH("/api/orders/:orderid", d.Auth.Authenticate(d.Orders.UpdateOrder))
	router.DELETE("/api/orders/:orderid", d.Auth.Authenticate(d.Orders.RemoveOrder))
	router.GET("/api/orders/:orderid/voucher", d.Auth.Authenticate(d.Orders.Voucher))
	router.GET("/ws/orders/:orderid", d.Auth.Authenticate(d.OrderHub.StatusUpdates))
}

func AddUserRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/users", d.Auth.RequireAdmin(users.GetUsers))
	router.GET("/api/users/:userid", d.Auth.RequireAdmin(users.GetUser))
	router.PUT("/api/users/:userid", d.Auth.RequireAdmin(users.EditUser))
	router.DELETE("/api/users/:userid", d.Auth.RequireAdmin(users.DeleteUser))
	router.GET("/api/users/:userid/orders", d.Auth.RequireAdmin(users.GetUserOrders))
}

func AddDashboardRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/dashboard", d.Auth.RequireAdmin(dashboard.GetStats))
}
