package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
)

const requestIDKey = "request_id"

// RequestID tags every request with an id, reusing a well-formed incoming
// X-Request-ID header and generating a UUID otherwise. The id is echoed in
// the response header and in error bodies.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			id := c.Request().Header.Get(echo.HeaderXRequestID)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			c.Set(requestIDKey, id)
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			return next(c)
		}
	}
}

func requestID(c *echo.Context) string {
	id, _ := c.Get(requestIDKey).(string)
	return id
}
