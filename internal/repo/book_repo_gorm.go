package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"bookreview/internal/domain"
)

type BookRepo struct{ db *gorm.DB }

func NewBookRepo(db *gorm.DB) *BookRepo { return &BookRepo{db: db} }

// summarySelect 评论数/评分和用相关子查询现算，public 时只计已审核评论
func summarySelect(public bool) (string, []any) {
	cond := "reviews.book_id = books.id"
	var args []any
	if public {
		cond += " AND reviews.status = ?"
		args = []any{string(domain.ReviewApproved), string(domain.ReviewApproved)}
	}
	sel := fmt.Sprintf("books.*, "+
		"(SELECT COUNT(*) FROM reviews WHERE %s) AS review_count, "+
		"(SELECT COALESCE(SUM(reviews.rating), 0) FROM reviews WHERE %s) AS rating_sum", cond, cond)
	return sel, args
}

func (r *BookRepo) scope(ctx context.Context, f domain.BookFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&domain.Book{})
	if f.Public {
		q = q.Where("books.status = ?", string(domain.BookActive))
	}
	if s := strings.TrimSpace(f.Keyword); s != "" {
		q = q.Where("LOWER(books.title) LIKE ? ESCAPE '!'", likePattern(s))
	}
	return q
}

func (r *BookRepo) List(ctx context.Context, f domain.BookFilter) (domain.Page[domain.BookSummary], error) {
	var total int64
	if err := r.scope(ctx, f).Count(&total).Error; err != nil {
		return domain.Page[domain.BookSummary]{}, fmt.Errorf("count books: %w", err)
	}

	sel, args := summarySelect(f.Public)
	var rows []domain.BookSummary
	err := r.scope(ctx, f).
		Select(sel, args...).
		Order("books.created_at DESC").Order("books.id DESC").
		Limit(domain.PageSize).Offset(domain.Offset(f.Page)).
		Scan(&rows).Error
	if err != nil {
		return domain.Page[domain.BookSummary]{}, fmt.Errorf("list books: %w", err)
	}
	return domain.NewPage(rows, total, f.Page), nil
}

func (r *BookRepo) Summary(ctx context.Context, id uint, public bool) (*domain.BookSummary, error) {
	sel, args := summarySelect(public)
	var rows []domain.BookSummary
	err := r.scope(ctx, domain.BookFilter{Public: public}).
		Select(sel, args...).
		Where("books.id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("book summary: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrBookNotFound
	}
	return &rows[0], nil
}

func (r *BookRepo) FindByID(ctx context.Context, id uint) (*domain.Book, error) {
	var b domain.Book
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookRepo) Create(ctx context.Context, b *domain.Book) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookRepo) Update(ctx context.Context, b *domain.Book) error {
	res := r.db.WithContext(ctx).Model(b).
		Select("title", "description", "author", "status", "image").
		Updates(b)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

func (r *BookRepo) Delete(ctx context.Context, id uint) (*domain.Book, error) {
	var b domain.Book
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&b, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBookNotFound
			}
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&domain.Review{}).Error; err != nil {
			return fmt.Errorf("delete book reviews: %w", err)
		}
		return tx.Delete(&domain.Book{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}
