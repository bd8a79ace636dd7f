package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bookreview/internal/domain"
	"bookreview/internal/validate"
)

// 表单原样传入字符串，由校验负责类型
type SubmitReviewInput struct {
	BookID string
	Review string
	Rating string
}

type OwnerReviewInput struct {
	Review string
	Rating string
}

type ModerateInput struct {
	Review string
	Status string
}

type ReviewService struct {
	reviews domain.ReviewRepository
	books   domain.BookRepository
}

func NewReviewService(reviews domain.ReviewRepository, books domain.BookRepository) *ReviewService {
	return &ReviewService{reviews: reviews, books: books}
}

// Submit 新评论一律待审核；同一用户对同一本书只能评一次
func (s *ReviewService) Submit(ctx context.Context, u *domain.User, in SubmitReviewInput) (*domain.Review, error) {
	content := strings.TrimSpace(in.Review)
	err := validate.Check(
		validate.Field("book_id", in.BookID, validate.Required("book_id")),
		validate.Field("review", content, validate.Required("review"), validate.MinLength("review", 10)),
		validate.Field("rating", in.Rating, validate.Required("rating"),
			validate.IntBetween("rating", domain.MinRating, domain.MaxRating)),
	)
	if err != nil {
		return nil, err
	}

	bookID, ok := parseID(in.BookID)
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	// 只能评前台可见的书
	if _, err := s.books.Summary(ctx, bookID, true); err != nil {
		return nil, err
	}
	exists, err := s.reviews.Exists(ctx, u.ID, bookID)
	if err != nil {
		return nil, fmt.Errorf("submit review: %w", err)
	}
	if exists {
		return nil, domain.ErrAlreadyReviewed
	}

	rating, _ := strconv.Atoi(strings.TrimSpace(in.Rating))
	r := &domain.Review{
		BookID:  bookID,
		UserID:  u.ID,
		Content: content,
		Rating:  rating,
		Status:  domain.ReviewPending,
	}
	if err := s.reviews.Create(ctx, r); err != nil {
		if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("submit review: %w", err)
	}
	return r, nil
}

func (s *ReviewService) ListMine(ctx context.Context, userID uint, keyword string, page int) (domain.Page[domain.Review], error) {
	return s.reviews.ListForUser(ctx, userID, domain.ReviewFilter{Keyword: keyword, Page: page})
}

func (s *ReviewService) GetMine(ctx context.Context, id, userID uint) (*domain.Review, error) {
	return s.reviews.GetOwned(ctx, id, userID)
}

func (s *ReviewService) UpdateMine(ctx context.Context, id, userID uint, in OwnerReviewInput) (*domain.Review, error) {
	// 先确认归属，别人的评论直接 404，不暴露校验结果
	if _, err := s.reviews.GetOwned(ctx, id, userID); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(in.Review)
	err := validate.Check(
		validate.Field("review", content, validate.Required("review")),
		validate.Field("rating", in.Rating, validate.Required("rating"),
			validate.IntBetween("rating", domain.MinRating, domain.MaxRating)),
	)
	if err != nil {
		return nil, err
	}
	rating, _ := strconv.Atoi(strings.TrimSpace(in.Rating))
	return s.reviews.UpdateOwned(ctx, id, userID, content, rating)
}

func (s *ReviewService) DeleteMine(ctx context.Context, id, userID uint) error {
	return s.reviews.DeleteOwned(ctx, id, userID)
}

func (s *ReviewService) ListAll(ctx context.Context, keyword string, page int) (domain.Page[domain.Review], error) {
	return s.reviews.ListForAdmin(ctx, domain.ReviewFilter{Keyword: keyword, Page: page})
}

func (s *ReviewService) Get(ctx context.Context, id uint) (*domain.Review, error) {
	return s.reviews.Get(ctx, id)
}

func (s *ReviewService) Moderate(ctx context.Context, id uint, in ModerateInput) (*domain.Review, error) {
	if _, err := s.reviews.Get(ctx, id); err != nil {
		return nil, err
	}
	statuses := make([]string, len(domain.ReviewStatuses))
	for i, st := range domain.ReviewStatuses {
		statuses[i] = string(st)
	}
	content := strings.TrimSpace(in.Review)
	err := validate.Check(
		validate.Field("review", content, validate.Required("review")),
		validate.Field("status", in.Status, validate.Required("status"), validate.In("status", statuses...)),
	)
	if err != nil {
		return nil, err
	}
	return s.reviews.Moderate(ctx, id, content, domain.ReviewStatus(in.Status))
}

func (s *ReviewService) Delete(ctx context.Context, id uint) error {
	return s.reviews.Delete(ctx, id)
}
