package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"bookreview/internal/core/media"
	"bookreview/internal/domain"
	"bookreview/internal/validate"
)

type BookInput struct {
	Title       string
	Description string
	Author      string
	Status      string
	Image       *media.Upload
}

// BookDetail 前台详情：书 + 聚合 + 已审核评论
type BookDetail struct {
	Book    *domain.BookSummary `json:"book"`
	Reviews []domain.Review     `json:"reviews"`
	Average float64             `json:"averageRating"`
}

type BookService struct {
	books    domain.BookRepository
	reviews  domain.ReviewRepository
	images   Images
	maxImage int64
	log      *zap.Logger
}

func NewBookService(books domain.BookRepository, reviews domain.ReviewRepository, images Images, maxImage int64, log *zap.Logger) *BookService {
	return &BookService{books: books, reviews: reviews, images: images, maxImage: maxImage, log: log}
}

// Browse 前台列表：只看上架书
func (s *BookService) Browse(ctx context.Context, keyword string, page int) (domain.Page[domain.BookSummary], error) {
	return s.books.List(ctx, domain.BookFilter{Keyword: keyword, Page: page, Public: true})
}

// List 后台列表：全部书，聚合计全部评论
func (s *BookService) List(ctx context.Context, keyword string, page int) (domain.Page[domain.BookSummary], error) {
	return s.books.List(ctx, domain.BookFilter{Keyword: keyword, Page: page})
}

func (s *BookService) Detail(ctx context.Context, id uint) (*BookDetail, error) {
	sum, err := s.books.Summary(ctx, id, true)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListApprovedForBook(ctx, id)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return &BookDetail{Book: sum, Reviews: reviews, Average: sum.AverageRating()}, nil
}

func (s *BookService) Get(ctx context.Context, id uint) (*domain.Book, error) {
	return s.books.FindByID(ctx, id)
}

func (s *BookService) check(in BookInput) error {
	statuses := make([]string, len(domain.BookStatuses))
	for i, st := range domain.BookStatuses {
		statuses[i] = string(st)
	}
	return validate.Check(
		validate.Field("title", strings.TrimSpace(in.Title), validate.Required("title"), validate.MinLength("title", 5)),
		validate.Field("author", strings.TrimSpace(in.Author), validate.Required("author"), validate.MinLength("author", 3)),
		validate.Field("status", in.Status, validate.Required("status"), validate.In("status", statuses...)),
		validate.Field("image", in.Image, validate.Image("image", s.maxImage)),
	)
}

func (in BookInput) apply(b *domain.Book) {
	b.Title = strings.TrimSpace(in.Title)
	b.Author = strings.TrimSpace(in.Author)
	b.Description = in.Description
	b.Status = domain.BookStatus(in.Status)
}

func (s *BookService) Create(ctx context.Context, in BookInput) (*domain.Book, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	name, err := storeImage(s.images, media.Books, in.Image)
	if err != nil {
		return nil, err
	}
	b := &domain.Book{}
	in.apply(b)
	if name != "" {
		b.Image = &name
	}
	err = s.books.Create(ctx, b)
	swapImage(s.images, s.log, media.Books, err, name, nil)
	if err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	return b, nil
}

func (s *BookService) Update(ctx context.Context, id uint, in BookInput) (*domain.Book, error) {
	cur, err := s.books.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.check(in); err != nil {
		return nil, err
	}
	name, err := storeImage(s.images, media.Books, in.Image)
	if err != nil {
		return nil, err
	}
	next := *cur
	in.apply(&next)
	if name != "" {
		next.Image = &name
	}
	err = s.books.Update(ctx, &next)
	swapImage(s.images, s.log, media.Books, err, name, cur.Image)
	if err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	return &next, nil
}

// Delete 事务内删书与评论，提交后再删图片
func (s *BookService) Delete(ctx context.Context, id uint) error {
	b, err := s.books.Delete(ctx, id)
	if err != nil {
		return err
	}
	if b.HasImage() {
		s.images.Remove(media.Books, *b.Image)
	}
	s.log.Info("book deleted", zap.Uint("book_id", id))
	return nil
}
