package middleware

import (
	"product-admin/toast"

	"github.com/gin-gonic/gin"
)

const ctxKeyToast = "toast"

// Toasts moves a pending toast from its cookie into the request context.
func Toasts(s *toast.Sealer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if t, ok := s.Receive(c.Writer, c.Request); ok {
			c.Set(ctxKeyToast, t)
		}
		c.Next()
	}
}

// PendingToast is the toast this request should render, if any.
func PendingToast(c *gin.Context) *toast.Toast {
	v, ok := c.Get(ctxKeyToast)
	if !ok {
		return nil
	}
	t := v.(toast.Toast)
	return &t
}
