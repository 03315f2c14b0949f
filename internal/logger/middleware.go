package logger

import (
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogger stores a request-scoped logger carrying the request id in the
// request context and writes one line per finished request.
// It must run after echo's RequestID middleware.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			res := c.Response()

			requestID := res.Header().Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = req.Header.Get(echo.HeaderXRequestID)
			}
			ctx := WithLogger(req.Context(), map[string]interface{}{
				"request_id": requestID,
			})
			c.SetRequest(req.WithContext(ctx))

			err := next(c)
			if err != nil {
				// let echo render the error so the logged status matches the response
				c.Error(err)
			}

			l := getLogger(ctx)
			event := l.Info()
			if res.Status >= 500 {
				event = l.Error().Err(err)
			} else if res.Status >= 400 {
				event = l.Warn()
			}
			event.
				Str("method", req.Method).
				Str("uri", req.RequestURI).
				Str("route", c.Path()).
				Int("status", res.Status).
				Int64("bytes_out", res.Size).
				Dur("latency", time.Since(start)).
				Msg("request")
			return nil
		}
	}
}
