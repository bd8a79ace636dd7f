package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookreview/internal/core/auth"
	"bookreview/internal/transport/http/ez"
)

// Guard 依次执行 gate，任一失败即中止，handler 不会执行
func Guard(l *zap.Logger, gates ...auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.Check(ez.Principal(c), gates...); err != nil {
			ez.Fail(c, l, err)
			return
		}
		c.Next()
	}
}
