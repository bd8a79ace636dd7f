package domain

import (
	"context"
	"time"
)

type BookStatus string

const (
	BookActive   BookStatus = "active"
	BookInactive BookStatus = "inactive"
)

var BookStatuses = []BookStatus{BookActive, BookInactive}

type Book struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:191;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Author      string     `gorm:"size:191;not null" json:"author"`
	Status      BookStatus `gorm:"size:16;not null;default:active;index" json:"status"`
	Image       *string    `gorm:"size:191" json:"image"`
	CreatedAt   time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (Book) TableName() string { return "books" }

func (b *Book) HasImage() bool { return b.Image != nil && *b.Image != "" }

// BookSummary 列表行：书 + 评论聚合（不落库，查询时现算）
type BookSummary struct {
	Book
	ReviewCount int64 `json:"reviewCount"`
	RatingSum   int64 `json:"ratingSum"`
}

// AverageRating ratingSum / reviewCount，无评论时为 0
func (s BookSummary) AverageRating() float64 {
	if s.ReviewCount == 0 {
		return 0
	}
	return float64(s.RatingSum) / float64(s.ReviewCount)
}

// BookFilter Public=true 时只看上架书，聚合只计已审核评论
type BookFilter struct {
	Keyword string
	Page    int
	Public  bool
}

type BookRepository interface {
	List(ctx context.Context, f BookFilter) (Page[BookSummary], error)
	Summary(ctx context.Context, id uint, public bool) (*BookSummary, error)
	FindByID(ctx context.Context, id uint) (*Book, error)
	Create(ctx context.Context, b *Book) error
	Update(ctx context.Context, b *Book) error
	// Delete 同一事务内级联删除该书的评论，返回被删的书（用于清理图片）
	Delete(ctx context.Context, id uint) (*Book, error)
}
