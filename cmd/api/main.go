package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bookreview/internal/core/auth"
	"bookreview/internal/core/config"
	"bookreview/internal/core/database"
	"bookreview/internal/core/logger"
	"bookreview/internal/core/media"
	"bookreview/internal/core/server"
	"bookreview/internal/core/session"
	"bookreview/internal/repo"
	"bookreview/internal/service"
	"bookreview/internal/transport/http/handler"
	mdw "bookreview/internal/transport/http/middleware"
	"bookreview/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log)
	defer cleanup()

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// 会话：redis 存记录，cookie 存签名 sid
	rdb := session.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer rdb.Close()
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Fatal("redis ping", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}
	pingCancel()
	ttl := time.Duration(cfg.Session.TTLMin) * time.Minute
	codec := &auth.Codec{Secret: []byte(cfg.Session.Secret), Issuer: cfg.Session.Issuer, TTL: ttl}
	sessions := session.NewManager(session.NewRedisStore(rdb), codec)

	store, err := media.NewStore(cfg.Upload.Dir, log)
	if err != nil {
		log.Fatal("upload dir", zap.String("dir", cfg.Upload.Dir), zap.Error(err))
	}

	// 依赖
	users, books, reviews := repo.NewUserRepo(db), repo.NewBookRepo(db), repo.NewReviewRepo(db)
	maxImage := int64(cfg.Upload.MaxImageMB) << 20
	deps := handler.Deps{
		Accounts: service.NewAccountService(users, store, maxImage, log),
		Books:    service.NewBookService(books, reviews, store, maxImage, log),
		Reviews:  service.NewReviewService(reviews, books),
		Sessions: sessions,
		MaxImage: maxImage,
		Log:      log,
	}

	mode := gin.DebugMode
	if cfg.App.Env == "prod" || cfg.App.Env == "production" {
		mode = gin.ReleaseMode
	}
	r := router.NewAPIEngine(log, deps, router.Options{
		Mode:      mode,
		Limits:    cfg.Limits,
		UploadDir: cfg.Upload.Dir,
		Cookie:    mdw.Cookie{Name: cfg.Session.CookieName, Secure: cfg.Session.Secure, MaxAge: int(ttl.Seconds())},
		Users:     users,
	})

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("bookreview starting",
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("metrics", baseURL+"/metrics"),
	)

	// 异步启动
	go func() {
		if err := server.StartHTTP(srv, log); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("bookreview start FAILED", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("bookreview stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
