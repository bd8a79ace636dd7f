package middleware

import (
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bookreview/internal/transport/http/ez"
)

// 日志中按 key 打码（query 与表单）
var sensitiveKeys = map[string]struct{}{
	"password": {}, "password_confirmation": {}, "pwd": {}, "token": {},
	"authorization": {}, "secret": {}, "access_token": {},
}

func mask(kv url.Values) url.Values {
	out := make(url.Values, len(kv))
	for k, v := range kv {
		if _, ok := sensitiveKeys[strings.ToLower(k)]; ok {
			out[k] = []string{"****"}
			continue
		}
		out[k] = v
	}
	return out
}

// AccessLog 请求摘要；5xx 记 ERROR，4xx 记 WARN
func AccessLog(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		fields := []zap.Field{
			zap.String("rid", c.GetString(KeyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", route),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("ua", c.Request.UserAgent()),
			zap.Int("size", c.Writer.Size()),
		}
		if u := ez.User(c); u != nil {
			fields = append(fields, zap.Uint("uid", u.ID))
		}
		if q := c.Request.URL.Query(); len(q) > 0 {
			fields = append(fields, zap.Any("query", mask(q)))
		}
		if len(c.Request.PostForm) > 0 {
			fields = append(fields, zap.Any("form", mask(c.Request.PostForm)))
		}

		lvl := zapcore.InfoLevel
		switch {
		case status >= 500:
			lvl = zapcore.ErrorLevel
		case status >= 400:
			lvl = zapcore.WarnLevel
		}
		if ce := l.Check(lvl, "HTTP"); ce != nil {
			ce.Write(fields...)
		}
	}
}
