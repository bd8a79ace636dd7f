// Package testutil 测试用 sqlite 库与数据构造器
package testutil

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"bookreview/internal/core/database"
)

// NewDB 每个测试一个独立的 sqlite 文件库，已迁移
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
