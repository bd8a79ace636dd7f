package domain

import (
	"context"
	"time"
)

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
)

var ReviewStatuses = []ReviewStatus{ReviewPending, ReviewApproved}

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	BookID    uint         `gorm:"not null;index;uniqueIndex:idx_review_user_book,priority:2" json:"bookId"`
	UserID    uint         `gorm:"not null;index;uniqueIndex:idx_review_user_book,priority:1" json:"userId"`
	Content   string       `gorm:"column:review;type:text;not null" json:"review"`
	Rating    int          `gorm:"not null" json:"rating"`
	Status    ReviewStatus `gorm:"size:16;not null;default:pending;index" json:"status"`
	CreatedAt time.Time    `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`

	Book *Book `gorm:"constraint:OnDelete:CASCADE" json:"book,omitempty"`
	User *User `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (Review) TableName() string { return "reviews" }

type ReviewFilter struct {
	Keyword string
	Page    int
}

type ReviewRepository interface {
	Create(ctx context.Context, r *Review) error
	Exists(ctx context.Context, userID, bookID uint) (bool, error)

	// 不带 owner 的是管理端入口；带 Owned 的按 user_id 收口，查不到一律 ErrNotFound
	Get(ctx context.Context, id uint) (*Review, error)
	GetOwned(ctx context.Context, id, userID uint) (*Review, error)
	ListForUser(ctx context.Context, userID uint, f ReviewFilter) (Page[Review], error)
	ListForAdmin(ctx context.Context, f ReviewFilter) (Page[Review], error)
	ListApprovedForBook(ctx context.Context, bookID uint) ([]Review, error)

	UpdateOwned(ctx context.Context, id, userID uint, content string, rating int) (*Review, error)
	Moderate(ctx context.Context, id uint, content string, status ReviewStatus) (*Review, error)

	Delete(ctx context.Context, id uint) error
	DeleteOwned(ctx context.Context, id, userID uint) error
}
