package ez

import (
	"github.com/gin-gonic/gin"

	"bookreview/internal/core/auth"
	"bookreview/internal/core/session"
	"bookreview/internal/domain"
)

const (
	ctxSession   = "ez.session"
	ctxPrincipal = "ez.principal"
	ctxCommit    = "ez.commit"
)

// Attach 会话中间件调用；commit 负责写回 redis 并设置 cookie
func Attach(c *gin.Context, s *session.Session, p *auth.Principal, commit func(*gin.Context)) {
	c.Set(ctxSession, s)
	c.Set(ctxPrincipal, p)
	c.Set(ctxCommit, commit)
}

// Session 未挂会话中间件时返回一次性的空会话
func Session(c *gin.Context) *session.Session {
	if v, ok := c.Get(ctxSession); ok {
		return v.(*session.Session)
	}
	s := &session.Session{}
	c.Set(ctxSession, s)
	return s
}

func Principal(c *gin.Context) *auth.Principal {
	if v, ok := c.Get(ctxPrincipal); ok {
		return v.(*auth.Principal)
	}
	return &auth.Principal{}
}

func User(c *gin.Context) *domain.User { return Principal(c).User }

// SetUser 登录/登出/改资料后刷新本次请求的身份
func SetUser(c *gin.Context, u *domain.User) { c.Set(ctxPrincipal, &auth.Principal{User: u}) }

// commit 在写响应头之前调用，重复调用无副作用
func commit(c *gin.Context) {
	v, ok := c.Get(ctxCommit)
	if !ok {
		return
	}
	if fn, ok := v.(func(*gin.Context)); ok {
		fn(c)
	}
}
