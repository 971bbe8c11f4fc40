// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"farmferia/internal/delivery/http/middleware"
	"farmferia/internal/delivery/http/router/handler"
	"farmferia/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	ProfileHandler *handler.ProfileHandler
	ProductHandler *handler.ProductHandler
	CartHandler    *handler.CartHandler
	OrderHandler   *handler.OrderHandler
	ChatHandler    *handler.ChatHandler
	SchemeHandler  *handler.SchemeHandler
	AdminHandler   *handler.AdminHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	p := r.params
	authed := p.AuthMiddleware.Authenticate

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", p.AuthHandler.SignUp)
		authGroup.POST("/signin", p.AuthHandler.SignIn)
		authGroup.POST("/refresh", p.AuthHandler.Refresh)
		authGroup.POST("/signout", p.AuthHandler.SignOut)
	}

	// Public catalog: buyers browse approved products without signing in
	e.GET("/products", p.ProductHandler.ListApproved)
	e.GET("/products/:id", p.ProductHandler.Get)

	// Schemes are readable by anyone
	e.GET("/schemes", p.SchemeHandler.List)
	e.GET("/schemes/:id", p.SchemeHandler.Get)

	// Routes for any authenticated account
	userGroup := e.Group("/user", authed)
	{
		userGroup.GET("/profile", p.ProfileHandler.Me)
		userGroup.PATCH("/profile", p.ProfileHandler.UpdateMe)
	}

	chatGroup := e.Group("/chat", authed)
	{
		chatGroup.POST("/messages", p.ChatHandler.Send)
		chatGroup.GET("/conversations/:userID", p.ChatHandler.Conversation)
		chatGroup.GET("/unread", p.ChatHandler.Unread)
	}

	orderGroup := e.Group("/orders", authed)
	{
		orderGroup.GET("/:id", p.OrderHandler.Get)
		orderGroup.GET("/:id/tracking-qr", p.OrderHandler.TrackingQR)
	}

	// Buyer routes: cart and order placement
	buyerGroup := e.Group("/buyer", authed, p.AuthMiddleware.RequireRole(entity.RoleBuyer.String()))
	{
		buyerGroup.GET("/cart", p.CartHandler.Get)
		buyerGroup.POST("/cart/items", p.CartHandler.AddItem)
		buyerGroup.PATCH("/cart/items/:productID", p.CartHandler.UpdateQuantity)
		buyerGroup.DELETE("/cart/items/:productID", p.CartHandler.RemoveItem)
		buyerGroup.DELETE("/cart", p.CartHandler.Clear)
		buyerGroup.POST("/cart/checkout", p.CartHandler.Checkout)
		buyerGroup.POST("/orders", p.OrderHandler.Create)
		buyerGroup.GET("/orders", p.OrderHandler.ListMine)
	}

	// Seller routes: catalog management and fulfilment
	sellerGroup := e.Group("/seller", authed, p.AuthMiddleware.RequireRole(entity.RoleSeller.String()))
	{
		sellerGroup.GET("/products", p.ProductHandler.ListMine)
		sellerGroup.POST("/products", p.ProductHandler.Create)
		sellerGroup.PATCH("/products/:id", p.ProductHandler.Update)
		sellerGroup.DELETE("/products/:id", p.ProductHandler.Delete)
		sellerGroup.GET("/orders", p.OrderHandler.ListIncoming)
		sellerGroup.PATCH("/orders/:id/status", p.OrderHandler.UpdateStatus)
	}

	// Admin routes: moderation, schemes, dashboard
	adminGroup := e.Group("/admin", authed, p.AuthMiddleware.RequireRole(entity.RoleAdmin.String()))
	{
		adminGroup.GET("/profiles", p.ProfileHandler.List)
		adminGroup.GET("/products/pending", p.ProductHandler.ListPending)
		adminGroup.POST("/products/:id/review", p.ProductHandler.Review)
		adminGroup.POST("/schemes", p.SchemeHandler.Create)
		adminGroup.PATCH("/schemes/:id", p.SchemeHandler.Update)
		adminGroup.DELETE("/schemes/:id", p.SchemeHandler.Delete)
		adminGroup.GET("/stats", p.AdminHandler.Stats)
	}
}
