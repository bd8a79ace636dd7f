package testutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"

	"gorm.io/gorm"

	"bookreview/internal/domain"
	"bookreview/pkg/utils"
)

type UserOption func(*domain.User)

func WithEmail(email string) UserOption { return func(u *domain.User) { u.Email = email } }
func WithRole(role string) UserOption   { return func(u *domain.User) { u.Role = role } }
func WithUserImage(name string) UserOption {
	return func(u *domain.User) { u.Image = &name }
}

// CreateUser 默认密码 "password"
func CreateUser(t *testing.T, db *gorm.DB, opts ...UserOption) *domain.User {
	t.Helper()
	hash, err := utils.HashPassword("password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &domain.User{
		Name:         "Reader",
		Email:        fmt.Sprintf("u_%s@example.com", utils.NewID()[:12]),
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	for _, o := range opts {
		o(u)
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

type BookOption func(*domain.Book)

func WithTitle(title string) BookOption { return func(b *domain.Book) { b.Title = title } }
func WithStatus(s domain.BookStatus) BookOption {
	return func(b *domain.Book) { b.Status = s }
}
func WithBookImage(name string) BookOption {
	return func(b *domain.Book) { b.Image = &name }
}

func CreateBook(t *testing.T, db *gorm.DB, opts ...BookOption) *domain.Book {
	t.Helper()
	b := &domain.Book{
		Title:  "Untitled Book",
		Author: "Anonymous",
		Status: domain.BookActive,
	}
	for _, o := range opts {
		o(b)
	}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("create book: %v", err)
	}
	return b
}

func CreateReview(t *testing.T, db *gorm.DB, user *domain.User, book *domain.Book, rating int, status domain.ReviewStatus, content string) *domain.Review {
	t.Helper()
	r := &domain.Review{
		UserID:  user.ID,
		BookID:  book.ID,
		Content: content,
		Rating:  rating,
		Status:  status,
	}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("create review: %v", err)
	}
	return r
}

// PNG w×h 纯色 PNG
func PNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
