// admin 运维命令：建表、授予/收回管理员角色。
//
//	admin migrate
//	admin promote -email boss@example.com
//	admin demote  -email boss@example.com
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bookreview/internal/core/config"
	"bookreview/internal/core/database"
	"bookreview/internal/core/logger"
	"bookreview/internal/domain"
	"bookreview/internal/repo"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: admin <migrate|promote|demote> [-email address]")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	_ = godotenv.Load()
	cfg, err := config.Read(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	log, cleanup := logger.New(cfg.Log)
	defer cleanup()

	db, err := openDB(cfg)
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, db, os.Args[1], os.Args[2:]); err != nil {
		log.Fatal(os.Args[1]+" failed", zap.Error(err))
	}
	log.Info(os.Args[1] + " done")
}

func run(ctx context.Context, db *gorm.DB, cmd string, args []string) error {
	switch cmd {
	case "migrate":
		return database.Migrate(db.WithContext(ctx))
	case "promote", "demote":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		email := fs.String("email", "", "user email")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if strings.TrimSpace(*email) == "" {
			return errors.New("-email is required")
		}
		role := domain.RoleAdmin
		if cmd == "demote" {
			role = domain.RoleUser
		}
		err := repo.NewUserRepo(db).SetRole(ctx, strings.ToLower(strings.TrimSpace(*email)), role)
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no user with email %q", *email)
		}
		return err
	default:
		usage()
		return nil
	}
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	return database.NewGorm(database.Opts{
		Driver:   cfg.DB.Driver,
		DSN:      cfg.DB.DSN,
		Username: cfg.DB.Username,
		Password: cfg.DB.Password,
		LogLevel: cfg.DB.LogLevel,
	})
}
