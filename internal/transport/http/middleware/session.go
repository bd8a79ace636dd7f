package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookreview/internal/core/auth"
	"bookreview/internal/core/session"
	"bookreview/internal/domain"
	"bookreview/internal/transport/http/ez"
	resp "bookreview/internal/transport/http/response"
)

type Cookie struct {
	Name   string
	Secure bool
	MaxAge int // 秒
}

// Sessions 读 cookie → redis 会话 → 当前用户，挂到请求上下文
func Sessions(m *session.Manager, users domain.UserRepository, ck Cookie, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		tok, _ := c.Cookie(ck.Name)
		s, err := m.Load(ctx, tok)
		if err != nil {
			l.Error("session load", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, resp.Error(resp.CodeUnavailable, ""))
			return
		}

		p := &auth.Principal{}
		if s.UserID != 0 {
			u, err := users.FindByID(ctx, s.UserID)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				// 用户已不存在，降级为匿名
				s.UserID = 0
			case err != nil:
				l.Error("session user", zap.Uint("uid", s.UserID), zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, resp.Error(resp.CodeServerError, ""))
				return
			default:
				p.User = u
			}
		}

		committed := false
		ez.Attach(c, s, p, func(c *gin.Context) {
			if committed || !s.Dirty() {
				return
			}
			committed = true
			tok, err := m.Save(c.Request.Context(), s)
			if err != nil {
				l.Error("session save", zap.Error(err))
				return
			}
			if tok == "" {
				c.SetCookie(ck.Name, "", -1, "/", "", ck.Secure, true)
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(ck.Name, tok, ck.MaxAge, "/", "", ck.Secure, true)
		})
		c.Next()
	}
}
