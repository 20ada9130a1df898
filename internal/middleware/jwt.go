package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// ContextUserID - ключ, под которым в echo-контексте лежит ID принципала
const ContextUserID = "user_id"

// JWTAuth извлекает аутентифицированного принципала из bearer-токена
// провайдера идентификации и кладёт его ID в контекст запроса.
// Сервис доверяет subject токена как непрозрачному идентификатору.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"error":   "not authenticated",
				})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"error":   "not authenticated",
				})
			}

			subject, err := token.Claims.GetSubject()
			if err != nil || subject == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"error":   "not authenticated",
				})
			}

			c.Set(ContextUserID, subject)
			return next(c)
		}
	}
}
