package domain

import "math"

// PageSize 所有列表固定每页 10 条
const PageSize = 10

type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	LastPage int   `json:"lastPage"`
}

// MaxPage 页码上限，保证 Offset 不溢出
const MaxPage = math.MaxInt32 / PageSize

// NormalizePage 页码从 1 开始，非法值按 1 处理，超过 MaxPage 截断
func NormalizePage(p int) int {
	switch {
	case p < 1:
		return 1
	case p > MaxPage:
		return MaxPage
	}
	return p
}

func Offset(page int) int { return (NormalizePage(page) - 1) * PageSize }

func NewPage[T any](items []T, total int64, page int) Page[T] {
	if items == nil {
		items = []T{}
	}
	last := int((total + PageSize - 1) / PageSize)
	if last < 1 {
		last = 1
	}
	return Page[T]{
		Items:    items,
		Total:    total,
		Page:     NormalizePage(page),
		PageSize: PageSize,
		LastPage: last,
	}
}
