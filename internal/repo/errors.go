package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDupKey TranslateError 之外再按文案兜底（不同驱动/版本对唯一键冲突的报错不一）
func isDupKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}

func isFKViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key")
}

// likeEscape 配合 `ESCAPE '!'`；不用反斜杠，mysql 与 postgres 对字符串里的 \ 处理不同
var likeEscape = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// likePattern 子串匹配，关键字里的 % _ 按字面量
func likePattern(keyword string) string {
	return "%" + likeEscape.Replace(strings.ToLower(strings.TrimSpace(keyword))) + "%"
}
