package echomw

import (
	"github.com/labstack/echo/v4"

	"github.com/reoring/gomapper/middleware"
)

// DecodeJSON deserializes the request body into a T, stores it in the
// request context on success, or answers with an issue payload.
func DecodeJSON[T any](opt middleware.Options) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v, err := middleware.Decode[T](c.Request(), opt)
			if err != nil {
				return c.JSON(middleware.Status(err), middleware.ErrorPayload(err))
			}
			ctx := middleware.ContextWithDecoded(c.Request().Context(), v)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetDecoded fetches the decoded T from echo.Context.
func GetDecoded[T any](c echo.Context) (T, bool) {
	return middleware.DecodedFromContext[T](c.Request().Context())
}
