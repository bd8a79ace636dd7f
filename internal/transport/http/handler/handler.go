// Package handler 页面与 AJAX 接口。页面以 JSON 信封返回视图数据，表单提交成功后 302 + flash。
package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookreview/internal/core/session"
	"bookreview/internal/domain"
	"bookreview/internal/service"
	"bookreview/internal/transport/http/ez"
	resp "bookreview/internal/transport/http/response"
)

type Deps struct {
	Accounts *service.AccountService
	Books    *service.BookService
	Reviews  *service.ReviewService
	Sessions *session.Manager
	MaxImage int64
	Log      *zap.Logger
}

// deleted AJAX 删除的统一返回：成功/未找到都写 flash，其它错误走 FailStatus
func deleted(c *gin.Context, l *zap.Logger, err error, okMsg, missingMsg string) error {
	switch {
	case err == nil:
		ez.Session(c).Flash(session.FlashSuccess, okMsg)
		ez.Status(c, resp.Status{Status: true, Message: okMsg})
	case errors.Is(err, domain.ErrNotFound):
		ez.Session(c).Flash(session.FlashError, missingMsg)
		ez.Status(c, resp.Status{Status: false, Message: missingMsg})
	default:
		ez.FailStatus(c, l, err)
	}
	return nil
}
