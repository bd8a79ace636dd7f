package validate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"bookreview/internal/core/media"
)

func label(field string) string { return strings.ReplaceAll(field, "_", " ") }

func Required(field string) validation.Rule {
	return validation.Required.Error(fmt.Sprintf("The %s field is required.", label(field)))
}

// MinLength 按字符（rune）计数，空值交给 Required
func MinLength(field string, n int) validation.Rule {
	return validation.RuneLength(n, 0).Error(fmt.Sprintf("The %s field must be at least %d characters.", label(field), n))
}

// Email 只校验格式（is.Email 会查 MX 记录）
func Email(field string) validation.Rule {
	return is.EmailFormat.Error(fmt.Sprintf("The %s field must be a valid email address.", label(field)))
}

func In(field string, allowed ...string) validation.Rule {
	vals := make([]any, len(allowed))
	for i, a := range allowed {
		vals[i] = a
	}
	return validation.In(vals...).Error(fmt.Sprintf("The selected %s is invalid.", label(field)))
}

// Confirmed 与确认字段一致（password / password_confirmation）
func Confirmed(field, confirmation string) validation.Rule {
	msg := fmt.Sprintf("The %s field confirmation does not match.", label(field))
	return validation.By(func(v any) error {
		s, _ := v.(string)
		if s == "" || s == confirmation {
			return nil
		}
		return errors.New(msg)
	})
}

// IntBetween 表单里的整数字符串，闭区间 [lo, hi]
func IntBetween(field string, lo, hi int) validation.Rule {
	return validation.By(func(v any) error {
		s, _ := v.(string)
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("The %s field must be an integer.", label(field))
		}
		if n < lo || n > hi {
			return fmt.Errorf("The %s field must be between %d and %d.", label(field), lo, hi)
		}
		return nil
	})
}

type uniqueRule struct {
	field string
	taken func(string) (bool, error)
}

// Unique taken 通常是仓储查询（可排除当前记录 id）；查库失败作为内部错误上抛
func Unique(field string, taken func(string) (bool, error)) validation.Rule {
	return uniqueRule{field: field, taken: taken}
}

func (r uniqueRule) Validate(v any) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	exists, err := r.taken(s)
	if err != nil {
		return validation.NewInternalError(err)
	}
	if exists {
		return fmt.Errorf("The %s has already been taken.", label(r.field))
	}
	return nil
}

type imageRule struct {
	field    string
	maxBytes int64
}

// Image 可选上传：nil 跳过；按文件头识别格式，不看扩展名
func Image(field string, maxBytes int64) validation.Rule {
	return imageRule{field: field, maxBytes: maxBytes}
}

func (r imageRule) Validate(v any) error {
	u, _ := v.(*media.Upload)
	if u == nil {
		return nil
	}
	if r.maxBytes > 0 && int64(len(u.Data)) > r.maxBytes {
		return fmt.Errorf("The %s field must not be greater than %d kilobytes.", label(r.field), r.maxBytes/1024)
	}
	if _, err := media.Detect(u.Data); err != nil {
		return fmt.Errorf("The %s field must be an image.", label(r.field))
	}
	return nil
}
