package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/locvowork/employee_records/internal/logger"
)

const requestIDHeader = echo.HeaderXRequestID

// RequestLogger tags each request with an id, stores a logger carrying that
// id in the request context and logs the outcome once the handler returns.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			c.Response().Header().Set(requestIDHeader, id)

			ctx := logger.WithLogger(req.Context(), map[string]interface{}{
				"request_id": id,
				"method":     req.Method,
				"path":       req.URL.Path,
			})
			c.SetRequest(req.WithContext(ctx))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			if status >= 500 {
				logger.ErrorLog(ctx, "Request failed with status %d in %s: %v", status, time.Since(start), err)
			} else {
				logger.InfoLog(ctx, "Request completed with status %d in %s", status, time.Since(start))
			}
			return nil
		}
	}
}
