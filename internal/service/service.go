// Package service 用例层：校验 → 持久化 → 图片落盘，错误按 domain 分类返回。
package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"bookreview/internal/core/media"
	"bookreview/internal/domain"
)

// Images 图片写入与清理，由 media.Store 实现
type Images interface {
	Save(c media.Category, data []byte) (string, error)
	Remove(c media.Category, name string)
}

// storeImage 在提交数据库之前落盘；上传为空返回 ""
func storeImage(img Images, c media.Category, up *media.Upload) (string, error) {
	if up == nil {
		return "", nil
	}
	name, err := img.Save(c, up.Data)
	if err != nil {
		return "", fmt.Errorf("%w: store %s image: %v", domain.ErrIO, c, err)
	}
	return name, nil
}

// swapImage 提交结果决定保留哪一份：失败删新图，成功删旧图
func swapImage(img Images, log *zap.Logger, c media.Category, commitErr error, newName string, old *string) {
	if newName == "" {
		return
	}
	if commitErr != nil {
		img.Remove(c, newName)
		return
	}
	if old != nil && *old != "" {
		log.Debug("replace image", zap.String("category", string(c)), zap.String("old", *old), zap.String("new", newName))
		img.Remove(c, *old)
	}
}

func parseID(s string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func isConflict(err error) bool { return errors.Is(err, domain.ErrConflict) }
