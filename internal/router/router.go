package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prokaiwa/lesson-booking/internal/handler"
	"github.com/prokaiwa/lesson-booking/internal/middleware"
)

// New собирает echo-приложение: health без аутентификации,
// точка входа бронирований за JWT
func New(booking *handler.BookingHandler, health *handler.HealthHandler, jwtSecret string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	e.GET("/health", health.Check)

	api := e.Group("/api", middleware.JWTAuth(jwtSecret))
	api.POST("/lesson-booking", booking.Handle)

	return e
}
