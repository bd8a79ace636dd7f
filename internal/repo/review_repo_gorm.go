package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"bookreview/internal/domain"
)

type ReviewRepo struct{ db *gorm.DB }

func NewReviewRepo(db *gorm.DB) *ReviewRepo { return &ReviewRepo{db: db} }

const reviewOrder = "reviews.created_at DESC, reviews.id DESC"

func (r *ReviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	err := r.db.WithContext(ctx).Omit("Book", "User").Create(rv).Error
	switch {
	case isDupKey(err):
		return domain.ErrAlreadyReviewed
	case isFKViolation(err):
		return domain.ErrBookNotFound
	}
	return err
}

func (r *ReviewRepo) Exists(ctx context.Context, userID, bookID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Review{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&n).Error
	return n > 0, err
}

func (r *ReviewRepo) first(q *gorm.DB) (*domain.Review, error) {
	var rv domain.Review
	err := q.First(&rv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *ReviewRepo) Get(ctx context.Context, id uint) (*domain.Review, error) {
	return r.first(r.db.WithContext(ctx).Preload("Book").Preload("User").Where("reviews.id = ?", id))
}

func (r *ReviewRepo) GetOwned(ctx context.Context, id, userID uint) (*domain.Review, error) {
	return r.first(r.db.WithContext(ctx).Preload("Book").
		Where("reviews.id = ? AND reviews.user_id = ?", id, userID))
}

func (r *ReviewRepo) list(ctx context.Context, f domain.ReviewFilter, scope func(*gorm.DB) *gorm.DB, preload ...string) (domain.Page[domain.Review], error) {
	base := func() *gorm.DB {
		q := scope(r.db.WithContext(ctx).Model(&domain.Review{}))
		if s := strings.TrimSpace(f.Keyword); s != "" {
			q = q.Where("LOWER(reviews.review) LIKE ? ESCAPE '!'", likePattern(s))
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return domain.Page[domain.Review]{}, fmt.Errorf("count reviews: %w", err)
	}

	q := base()
	for _, p := range preload {
		q = q.Preload(p)
	}
	var items []domain.Review
	if err := q.Order(reviewOrder).Limit(domain.PageSize).Offset(domain.Offset(f.Page)).Find(&items).Error; err != nil {
		return domain.Page[domain.Review]{}, fmt.Errorf("list reviews: %w", err)
	}
	return domain.NewPage(items, total, f.Page), nil
}

func (r *ReviewRepo) ListForUser(ctx context.Context, userID uint, f domain.ReviewFilter) (domain.Page[domain.Review], error) {
	return r.list(ctx, f, func(q *gorm.DB) *gorm.DB {
		return q.Where("reviews.user_id = ?", userID)
	}, "Book")
}

func (r *ReviewRepo) ListForAdmin(ctx context.Context, f domain.ReviewFilter) (domain.Page[domain.Review], error) {
	return r.list(ctx, f, func(q *gorm.DB) *gorm.DB { return q }, "Book", "User")
}

func (r *ReviewRepo) ListApprovedForBook(ctx context.Context, bookID uint) ([]domain.Review, error) {
	var items []domain.Review
	err := r.db.WithContext(ctx).Preload("User").
		Where("reviews.book_id = ? AND reviews.status = ?", bookID, string(domain.ReviewApproved)).
		Order(reviewOrder).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list book reviews: %w", err)
	}
	return items, nil
}

func (r *ReviewRepo) update(where *gorm.DB, values map[string]any) error {
	res := where.Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepo) UpdateOwned(ctx context.Context, id, userID uint, content string, rating int) (*domain.Review, error) {
	where := r.db.WithContext(ctx).Model(&domain.Review{}).Where("id = ? AND user_id = ?", id, userID)
	if err := r.update(where, map[string]any{"review": content, "rating": rating}); err != nil {
		return nil, err
	}
	return r.GetOwned(ctx, id, userID)
}

func (r *ReviewRepo) Moderate(ctx context.Context, id uint, content string, status domain.ReviewStatus) (*domain.Review, error) {
	where := r.db.WithContext(ctx).Model(&domain.Review{}).Where("id = ?", id)
	if err := r.update(where, map[string]any{"review": content, "status": string(status)}); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *ReviewRepo) remove(q *gorm.DB) error {
	res := q.Delete(&domain.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepo) Delete(ctx context.Context, id uint) error {
	return r.remove(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *ReviewRepo) DeleteOwned(ctx context.Context, id, userID uint) error {
	return r.remove(r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID))
}
