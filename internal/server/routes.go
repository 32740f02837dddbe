package server

import (
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/middleware"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, sessionCfg middleware.CartSessionConfig, productH *handler.ProductHandler, cartH *handler.CartHandler) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	g := e.Group("")
	g.Use(middleware.CartSession(sessionCfg))

	productH.RegisterRoutes(g)
	cartH.RegisterRoutes(g)
}
