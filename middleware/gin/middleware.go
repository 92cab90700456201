package ginmw

import (
	"github.com/gin-gonic/gin"

	"github.com/reoring/gomapper/middleware"
)

// DecodeJSON deserializes the request body into a T and stores it in the
// request context. On failure it aborts with an issue payload.
func DecodeJSON[T any](opt middleware.Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := middleware.Decode[T](c.Request, opt)
		if err != nil {
			c.AbortWithStatusJSON(middleware.Status(err), middleware.ErrorPayload(err))
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithDecoded(c.Request.Context(), v))
		c.Next()
	}
}

// GetDecoded fetches the decoded T from gin.Context.
func GetDecoded[T any](c *gin.Context) (T, bool) {
	return middleware.DecodedFromContext[T](c.Request.Context())
}
