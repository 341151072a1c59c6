package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CtxError holds an error a handler already answered with a response.
const CtxError = "handler_error"

// SetError records err for RequestLogger without changing the response.
func SetError(c echo.Context, err error) {
	c.Set(CtxError, err)
}

// RequestLogger writes one structured line per request.  The logged error
// is the one returned by the handler or, failing that, the one recorded
// with SetError.
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			} else if recorded, ok := c.Get(CtxError).(error); ok {
				err = recorded
			}
			req, res := c.Request(), c.Response()
			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("route", c.Path()),
				zap.String("uri", req.RequestURI),
				zap.Int("status", res.Status),
				zap.Int64("bytes", res.Size),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", c.RealIP()),
			}
			if id, ok := UserID(c); ok {
				fields = append(fields, zap.Uint64("user_id", id))
			}
			switch {
			case res.Status >= 500 || (err != nil && res.Status < 400):
				log.Error("request", append(fields, zap.Error(err))...)
			case res.Status >= 400:
				if err != nil {
					fields = append(fields, zap.Error(err))
				}
				log.Warn("request", fields...)
			default:
				log.Info("request", fields...)
			}
			return nil
		}
	}
}
