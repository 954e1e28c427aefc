package server

import (
	"vex-storefront/internal/handler"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo            *echo.Echo
	catalogHandler  *handler.CatalogHandler
	orderHandler    *handler.OrderHandler
	checkoutHandler *handler.CheckoutHandler
}

func NewServer(
	catalogHandler *handler.CatalogHandler,
	orderHandler *handler.OrderHandler,
	checkoutHandler *handler.CheckoutHandler,
) *Server {
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:            e,
		catalogHandler:  catalogHandler,
		orderHandler:    orderHandler,
		checkoutHandler: checkoutHandler,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- storefront --------
	api.GET("/products", s.catalogHandler.PublishedProducts)

	// -------- admin catalog --------
	admin := api.Group("/admin")
	admin.GET("/products", s.catalogHandler.ListProducts)
	admin.POST("/products", s.catalogHandler.CreateProduct)
	admin.PUT("/products/:index", s.catalogHandler.UpdateProduct)
	admin.DELETE("/products/:index", s.catalogHandler.DeleteProduct)
	admin.POST("/products/save", s.catalogHandler.SaveChanges)
	admin.POST("/products/reset", s.catalogHandler.ResetProducts)
	admin.POST("/products/refresh", s.catalogHandler.RefreshProducts)
	admin.POST("/confirm/:token", s.catalogHandler.ConfirmAction)
	admin.DELETE("/confirm", s.catalogHandler.DeclineAction)

	// -------- admin orders --------
	admin.GET("/orders", s.orderHandler.ListOrders)
	admin.GET("/orders/:orderNumber", s.orderHandler.GetOrder)

	// -------- checkout --------
	api.PUT("/cart", s.checkoutHandler.PutCart)
	checkout := api.Group("/checkout")
	checkout.GET("/summary", s.checkoutHandler.Summary)
	checkout.POST("", s.checkoutHandler.Submit)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
