// Package ez gin 轻封装：handler 只返回 error，错误到状态码的映射集中在 Fail。
package ez

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"bookreview/internal/core/media"
	"bookreview/internal/domain"
)

var ErrBadRequest = errors.New("bad request")

type Handler func(c *gin.Context) error

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ { return EZ{g: g, log: l} }

func (e EZ) Group(path string, mw ...gin.HandlerFunc) EZ {
	return EZ{g: e.g.Group(path, mw...), log: e.log}
}

func (e EZ) Handle(method, path string, h Handler) {
	e.g.Handle(method, path, func(c *gin.Context) {
		if err := h(c); err != nil {
			Fail(c, e.log, err)
		}
	})
}

func (e EZ) GET(path string, h Handler)    { e.Handle(http.MethodGet, path, h) }
func (e EZ) POST(path string, h Handler)   { e.Handle(http.MethodPost, path, h) }
func (e EZ) DELETE(path string, h Handler) { e.Handle(http.MethodDelete, path, h) }

// Bind 表单 / JSON / query 按 Content-Type 自动选择；只做类型绑定，规则校验在 service
func Bind[T any](c *gin.Context) (T, error) {
	var in T
	if err := c.ShouldBind(&in); err != nil {
		return in, errors.Join(ErrBadRequest, err)
	}
	return in, nil
}

func parseID(raw string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || n == 0 {
		return 0, domain.ErrNotFound
	}
	return uint(n), nil
}

// ParamID 路径参数；非法 id 一律按不存在处理
func ParamID(c *gin.Context, name string) (uint, error) { return parseID(c.Param(name)) }

// TargetID 删除类接口的 id：query → 表单 → JSON body
func TargetID(c *gin.Context) (uint, error) {
	raw := c.Query("id")
	if raw == "" {
		raw = c.PostForm("id")
	}
	if raw == "" && c.ContentType() == binding.MIMEPOSTForm {
		raw = formBody(c).Get("id")
	}
	if raw == "" && c.ContentType() == binding.MIMEJSON {
		var body struct {
			ID json.Number `json:"id"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			raw = body.ID.String()
		}
	}
	return parseID(raw)
}

// formBody ParseForm 只读 POST/PUT/PATCH 的 body，DELETE 的表单需自己解析
func formBody(c *gin.Context) url.Values {
	switch c.Request.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return nil
	}
	if c.Request.Body == nil {
		return nil
	}
	b, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil
	}
	vs, err := url.ParseQuery(string(b))
	if err != nil {
		return nil
	}
	return vs
}

// Upload 可选文件字段；没传返回 nil
func Upload(c *gin.Context, field string, limit int64) (*media.Upload, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, err
		}
		return nil, errors.Join(ErrBadRequest, err)
	}
	return media.ReadUpload(fh, limit)
}

// Page ?page=，缺省或非法为 1
func Page(c *gin.Context) int {
	n, _ := strconv.Atoi(c.Query("page"))
	return domain.NormalizePage(n)
}
