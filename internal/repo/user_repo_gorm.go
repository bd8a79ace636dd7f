package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"bookreview/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if isDupKey(err) {
		return fmt.Errorf("create user: %w", domain.ErrConflict)
	}
	return err
}

func (r *UserRepo) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	q := r.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateProfile 只写 name/email/image，image 可置空
func (r *UserRepo) UpdateProfile(ctx context.Context, u *domain.User) error {
	res := r.db.WithContext(ctx).Model(u).Select("name", "email", "image").Updates(u)
	if isDupKey(res.Error) {
		return fmt.Errorf("update user: %w", domain.ErrConflict)
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepo) SetRole(ctx context.Context, email, role string) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
