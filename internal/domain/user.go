package domain

import (
	"context"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:64;not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash string    `gorm:"size:191;not null" json:"-"`
	Image        *string   `gorm:"size:191" json:"image"`
	Role         string    `gorm:"size:16;not null;default:user" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// HasImage 头像是否存在（nil 与空串都视为无）
func (u *User) HasImage() bool { return u.Image != nil && *u.Image != "" }

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// EmailTaken exceptID != 0 时排除该用户自身（资料更新场景）
	EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error)
	UpdateProfile(ctx context.Context, u *User) error
	SetRole(ctx context.Context, email, role string) error
}
