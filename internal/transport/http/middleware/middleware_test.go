package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"

	"bookreview/internal/core/auth"
	"bookreview/internal/domain"
	"bookreview/internal/transport/http/ez"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimitPerIP(rate.Limit(0.001), 2), func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		return serve(r, req).Code
	}
	assert.Equal(t, http.StatusOK, get("10.0.0.1"))
	assert.Equal(t, http.StatusOK, get("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, get("10.0.0.1"))
	assert.Equal(t, http.StatusOK, get("10.0.0.2"))
}

func TestMaxBodyBytes(t *testing.T) {
	r := gin.New()
	r.POST("/", MaxBodyBytes(8), func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("tiny")))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("way more than eight bytes")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.GET("/", RequestID(), func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(KeyRequestID, "abc")
	w := serve(r, req)
	assert.Equal(t, "abc", w.Header().Get(KeyRequestID))
	assert.Equal(t, "abc", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(KeyRequestID, strings.Repeat("x", 100))
	w = serve(r, req)
	assert.Len(t, w.Header().Get(KeyRequestID), 36)
}

func TestGuardStopsBeforeHandler(t *testing.T) {
	asUser := func(u *domain.User) gin.HandlerFunc {
		return func(c *gin.Context) { ez.SetUser(c, u) }
	}
	reached := false
	r := gin.New()
	h := func(c *gin.Context) { reached = true; c.Status(http.StatusOK) }
	log := zap.NewNop()
	r.GET("/admin-as-user", asUser(&domain.User{ID: 1, Role: domain.RoleUser}), Guard(log, auth.AuthRequired, auth.AdminRequired), h)
	r.GET("/admin-as-admin", asUser(&domain.User{ID: 2, Role: domain.RoleAdmin}), Guard(log, auth.AuthRequired, auth.AdminRequired), h)
	r.GET("/guest-as-user", asUser(&domain.User{ID: 1}), Guard(log, auth.GuestOnly), h)
	r.GET("/auth-as-anon", Guard(log, auth.AuthRequired), h)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/admin-as-user", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, reached)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/guest-as-user", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, ez.ProfilePath, w.Header().Get("Location"))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/auth-as-anon", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, ez.LoginPath, w.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/auth-as-anon", nil)
	req.Header.Set("Accept", "application/json")
	w = serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, reached)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/admin-as-admin", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, reached)
}

func TestAccessLogMasksAndLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := gin.New()
	r.Use(AccessLog(zap.New(core)))
	r.POST("/login", func(c *gin.Context) {
		_ = c.Request.ParseForm()
		c.Status(http.StatusUnprocessableEntity)
	})
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	form := url.Values{"email": {"a@b.com"}, "password": {"secret1"}, "password_confirmation": {"secret1"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	serve(r, req)
	serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		logged := entries[0].ContextMap()["form"].(url.Values)
		assert.Equal(t, []string{"****"}, logged["password"])
		assert.Equal(t, []string{"****"}, logged["password_confirmation"])
		assert.Equal(t, []string{"a@b.com"}, logged["email"])
		assert.Equal(t, "/login", entries[0].ContextMap()["path"])
		assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	}
}
