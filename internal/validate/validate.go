// Package validate 声明式字段校验：每个字段跑完全部规则，收集有序错误文案。
// 规则直接复用 ozzo-validation 的 Rule；自定义规则见 rules.go。
package validate

import (
	"errors"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Errors 字段 → 有序错误文案；作为 error 返回即 ValidationError
type Errors map[string][]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e[k], "; "))
	}
	return strings.Join(parts, " | ")
}

func (e Errors) Add(field, msg string) { e[field] = append(e[field], msg) }

// First 某字段的第一条错误
func (e Errors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// FieldError 单字段错误（服务层在持久化冲突时补报）
func FieldError(field, msg string) Errors { return Errors{field: {msg}} }

// AsErrors errors.As 的快捷方式
func AsErrors(err error) (Errors, bool) {
	var ve Errors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type FieldRules struct {
	name  string
	value any
	rules []validation.Rule
}

func Field(name string, value any, rules ...validation.Rule) *FieldRules {
	return &FieldRules{name: name, value: value, rules: rules}
}

// Check 依次执行所有字段的全部规则。
// 返回 nil（通过）、Errors（校验失败）或规则内部错误（如查库失败）。
func Check(fields ...*FieldRules) error {
	errs := Errors{}
	for _, f := range fields {
		for _, r := range f.rules {
			err := r.Validate(f.value)
			if err == nil {
				continue
			}
			var ie validation.InternalError
			if errors.As(err, &ie) {
				return ie.InternalError()
			}
			errs.Add(f.name, err.Error())
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
