package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"bookreview/internal/core/auth"
	"bookreview/internal/core/config"
	"bookreview/internal/core/server"
	"bookreview/internal/domain"
	"bookreview/internal/transport/http/ez"
	"bookreview/internal/transport/http/handler"
	mdw "bookreview/internal/transport/http/middleware"
)

type Options struct {
	Mode      string
	Limits    config.Limits
	UploadDir string
	Cookie    mdw.Cookie
	Users     domain.UserRepository
}

func NewAPIEngine(l *zap.Logger, d handler.Deps, o Options) *gin.Engine {
	r := server.NewRouter(l, server.Options{Mode: o.Mode})

	// 中间件
	r.Use(limits(o.Limits)...)
	r.Use(mdw.Metrics(), mdw.AccessLog(l))

	// 健康检查 / 指标 / 上传文件
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(mdw.MetricsHandler()))
	r.Static("/uploads", o.UploadDir)

	web := ez.New(r.Group("", mdw.Sessions(d.Sessions, o.Users, o.Cookie, l)), l)
	mount(web, l, d)
	return r
}

// limits 未配置（<=0）的限制项不挂
func limits(c config.Limits) []gin.HandlerFunc {
	hs := []gin.HandlerFunc{mdw.RequestID()}
	if c.RPS > 0 && c.Burst > 0 {
		hs = append(hs, mdw.RateLimit(rate.Limit(c.RPS), c.Burst))
	}
	if c.Concurrency > 0 {
		hs = append(hs, mdw.ConcurrencyLimit(c.Concurrency))
	}
	if c.MaxBodyMB > 0 {
		hs = append(hs, mdw.MaxBodyBytes(c.MaxBodyMB<<20))
	}
	if c.TimeoutSec > 0 {
		hs = append(hs, mdw.Timeout(time.Duration(c.TimeoutSec)*time.Second))
	}
	return hs
}

func mount(web ez.EZ, l *zap.Logger, d handler.Deps) {
	home := handler.NewHomeHandler(d)
	account := handler.NewAccountHandler(d)
	books := handler.NewBookHandler(d)
	reviews := handler.NewReviewHandler(d)

	web.GET("/", home.Index)
	web.GET("/book/:id", home.Detail)
	web.Group("", mdw.Guard(l, auth.AuthRequired)).POST("/save-book-review", home.SaveReview)

	// 访客：注册 / 登录
	guest := web.Group("/account", mdw.Guard(l, auth.GuestOnly))
	bruteForce := mdw.RateLimitPerIP(rate.Every(time.Second), 10)
	guest.GET("/register", account.RegisterPage)
	guest.Group("", bruteForce).POST("/register", account.Register)
	guest.GET("/login", account.LoginPage)
	guest.Group("", bruteForce).POST("/login", account.Login)

	// 已登录
	user := web.Group("/account", mdw.Guard(l, auth.AuthRequired))
	user.GET("/profile", account.Profile)
	user.GET("/logout", account.Logout)
	user.POST("/update-profile", account.UpdateProfile)
	user.GET("/my-reviews", account.MyReviews)
	user.GET("/my-reviews/:id", account.EditMyReview)
	user.POST("/my-reviews/:id", account.UpdateMyReview)
	user.POST("/delete-my-reviews", account.DeleteMyReview)

	// 管理员
	admin := web.Group("/account", mdw.Guard(l, auth.AuthRequired, auth.AdminRequired))
	admin.GET("/books", books.Index)
	admin.GET("/books/create", books.CreatePage)
	admin.POST("/books", books.Store)
	admin.GET("/books/edit/:id", books.Edit)
	admin.POST("/books/edit/:id", books.Update)
	admin.DELETE("/books", books.Destroy)

	admin.GET("/reviews", reviews.Index)
	admin.GET("/reviews/:id", reviews.Edit)
	admin.POST("/reviews/:id", reviews.Update)
	admin.POST("/delete-review", reviews.Delete)
}
