package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bookreview/internal/domain"
)

var ErrUnsupportedDriver = errors.New("database: unsupported driver")

type Opts struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	LogLevel           string
}

func dialector(o Opts) (gorm.Dialector, error) {
	switch o.Driver {
	case "postgres":
		return postgres.Open(o.DSN), nil
	case "mysql":
		return mysql.Open(mysqlDSN(o.DSN, o.Username, o.Password)), nil
	case "sqlite":
		// 本地开发/测试用；外键需显式打开
		dsn := o.DSN
		if !strings.Contains(dsn, "foreign_keys") {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + "_pragma=foreign_keys(1)"
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, o.Driver)
	}
}

func NewGorm(o Opts) (*gorm.DB, error) {
	dial, err := dialector(o)
	if err != nil {
		return nil, err
	}
	lvl := logger.Warn
	switch o.LogLevel {
	case "silent":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "info":
		lvl = logger.Info
	}
	db, err := gorm.Open(dial, &gorm.Config{
		Logger:                 logger.Default.LogMode(lvl),
		TranslateError:         true, // 唯一键冲突 → gorm.ErrDuplicatedKey
		SkipDefaultTransaction: true, // 只在需要时手动开 Tx
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if o.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	}
	if o.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(o.MaxIdleConns)
	}
	if o.ConnMaxLifetimeMin > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(o.ConnMaxLifetimeMin) * time.Minute)
	}
	return db, nil
}

// Migrate 建表顺序：users → books → reviews（reviews 依赖前两者的外键）
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.User{}, &domain.Book{}, &domain.Review{})
}

// mysqlDSN 只在 DSN 不含凭据时注入用户名/密码，并补 parseTime/charset
func mysqlDSN(dsn, user, pass string) string {
	dsn = strings.TrimSpace(dsn)
	if user != "" && !strings.Contains(dsn, "@") {
		cred := user
		if pass != "" {
			cred += ":" + pass
		}
		dsn = cred + "@" + dsn
	}
	if !strings.Contains(dsn, "parseTime=") {
		if strings.Contains(dsn, "?") {
			dsn += "&parseTime=true"
		} else {
			dsn += "?parseTime=true"
		}
	}
	if !strings.Contains(dsn, "charset=") {
		dsn += "&charset=utf8mb4"
	}
	return dsn
}
