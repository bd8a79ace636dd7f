package ez

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookreview/internal/domain"
	resp "bookreview/internal/transport/http/response"
	"bookreview/internal/validate"
)

const (
	LoginPath   = "/account/login"
	ProfilePath = "/account/profile"
)

// 不回显的字段
var secretFields = map[string]struct{}{"password": {}, "password_confirmation": {}}

// WantsJSON AJAX / API 调用方（影响未登录时是重定向还是 401）
func WantsJSON(c *gin.Context) bool {
	if strings.EqualFold(c.GetHeader("X-Requested-With"), "XMLHttpRequest") {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json") ||
		strings.HasPrefix(c.ContentType(), "application/json")
}

// View 页面数据：附带当前用户和本次弹出的 flash
func View(c *gin.Context, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["user"] = User(c)
	data["flashes"] = Session(c).PopFlashes()
	commit(c)
	c.JSON(http.StatusOK, resp.OK(data))
}

func Redirect(c *gin.Context, to string) {
	commit(c)
	c.Redirect(http.StatusFound, to)
}

// RedirectWith 带一条 flash 的重定向
func RedirectWith(c *gin.Context, to, kind, msg string) {
	Session(c).Flash(kind, msg)
	Redirect(c, to)
}

// Old 原样回显的表单输入，密码类字段剔除
func Old(c *gin.Context) map[string]string {
	old := map[string]string{}
	if c.Request.PostForm == nil {
		return old
	}
	for k, v := range c.Request.PostForm {
		if _, secret := secretFields[k]; secret || len(v) == 0 {
			continue
		}
		old[k] = v[0]
	}
	return old
}

func Invalid(c *gin.Context, errs validate.Errors) {
	commit(c)
	c.JSON(http.StatusUnprocessableEntity, resp.Invalid(errs, Old(c)))
}

func Status(c *gin.Context, st resp.Status) {
	commit(c)
	c.JSON(http.StatusOK, st)
}

// classify 错误 → HTTP 状态码与可展示文案
func classify(err error) (int, string) {
	var mbe *http.MaxBytesError
	msg := domain.Message(err)
	switch {
	case errors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge, ""
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, ""
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, msg
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, msg
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrAlreadyAuthenticated):
		return http.StatusForbidden, ""
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, msg
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ""
	default:
		return http.StatusInternalServerError, ""
	}
}

func logIfInternal(c *gin.Context, l *zap.Logger, code int, err error) {
	if code < http.StatusInternalServerError || l == nil {
		return
	}
	l.Error("request failed",
		zap.String("rid", c.Writer.Header().Get("X-Request-ID")),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
}

// Fail 统一错误出口：校验错误 422，未登录跳登录页（JSON 调用方 401），内部错误只记日志
func Fail(c *gin.Context, l *zap.Logger, err error) {
	defer c.Abort()
	if ve, ok := validate.AsErrors(err); ok {
		Invalid(c, ve)
		return
	}
	if !WantsJSON(c) {
		switch {
		case errors.Is(err, domain.ErrAlreadyAuthenticated):
			Redirect(c, ProfilePath)
			return
		case errors.Is(err, domain.ErrUnauthorized):
			Redirect(c, LoginPath)
			return
		}
	}
	code, msg := classify(err)
	logIfInternal(c, l, code, err)
	commit(c)
	c.JSON(code, resp.Error(code, msg))
}

// FailStatus AJAX 接口的错误出口：{status:false, message, errors}
func FailStatus(c *gin.Context, l *zap.Logger, err error) {
	defer c.Abort()
	if ve, ok := validate.AsErrors(err); ok {
		commit(c)
		c.JSON(http.StatusUnprocessableEntity, resp.Status{Status: false, Errors: ve})
		return
	}
	code, msg := classify(err)
	logIfInternal(c, l, code, err)
	if msg == "" {
		msg = resp.CodeMsgMap[code]
	}
	commit(c)
	c.JSON(code, resp.Status{Status: false, Message: msg})
}
