package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"bookreview/internal/core/media"
	"bookreview/internal/domain"
	"bookreview/internal/validate"
	"bookreview/pkg/utils"
)

const emailTaken = "The email has already been taken."

type RegisterInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
}

type LoginInput struct {
	Email    string
	Password string
}

type ProfileInput struct {
	Name  string
	Email string
	Image *media.Upload
}

type AccountService struct {
	users    domain.UserRepository
	images   Images
	maxImage int64
	log      *zap.Logger

	// dummyHash 邮箱不存在时也跑一次 bcrypt，响应时间不泄露账号是否存在
	dummyHash string
}

func NewAccountService(users domain.UserRepository, images Images, maxImage int64, log *zap.Logger) *AccountService {
	h, _ := utils.HashPassword("bookreview-dummy")
	return &AccountService{users: users, images: images, maxImage: maxImage, log: log, dummyHash: h}
}

func normEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (s *AccountService) emailTaken(ctx context.Context, exceptID uint) func(string) (bool, error) {
	return func(email string) (bool, error) { return s.users.EmailTaken(ctx, email, exceptID) }
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	name, email := strings.TrimSpace(in.Name), normEmail(in.Email)
	err := validate.Check(
		validate.Field("name", name, validate.Required("name"), validate.MinLength("name", 3)),
		validate.Field("email", email, validate.Required("email"), validate.Email("email"),
			validate.Unique("email", s.emailTaken(ctx, 0))),
		validate.Field("password", in.Password, validate.Required("password"), validate.MinLength("password", 5),
			validate.Confirmed("password", in.PasswordConfirmation)),
		validate.Field("password_confirmation", in.PasswordConfirmation, validate.Required("password_confirmation")),
	)
	if err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{Name: name, Email: email, PasswordHash: hash, Role: domain.RoleUser}
	if err := s.users.Create(ctx, u); err != nil {
		// 并发注册同一邮箱：校验通过但唯一索引兜住
		if isConflict(err) {
			return nil, validate.FieldError("email", emailTaken)
		}
		return nil, fmt.Errorf("register: %w", err)
	}
	s.log.Info("user registered", zap.Uint("uid", u.ID))
	return u, nil
}

// Authenticate 邮箱不存在与密码错误返回同一个错误
func (s *AccountService) Authenticate(ctx context.Context, in LoginInput) (*domain.User, error) {
	email := normEmail(in.Email)
	err := validate.Check(
		validate.Field("email", email, validate.Required("email"), validate.Email("email")),
		validate.Field("password", in.Password, validate.Required("password")),
	)
	if err != nil {
		return nil, err
	}

	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		utils.CheckPassword(in.Password, s.dummyHash)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !utils.CheckPassword(in.Password, u.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

func (s *AccountService) User(ctx context.Context, id uint) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// UpdateProfile 新头像先落盘再提交；提交失败删新图，成功后删旧图
func (s *AccountService) UpdateProfile(ctx context.Context, u *domain.User, in ProfileInput) (*domain.User, error) {
	name, email := strings.TrimSpace(in.Name), normEmail(in.Email)
	err := validate.Check(
		validate.Field("name", name, validate.Required("name"), validate.MinLength("name", 3)),
		validate.Field("email", email, validate.Required("email"), validate.Email("email"),
			validate.Unique("email", s.emailTaken(ctx, u.ID))),
		validate.Field("image", in.Image, validate.Image("image", s.maxImage)),
	)
	if err != nil {
		return nil, err
	}

	newName, err := storeImage(s.images, media.Profile, in.Image)
	if err != nil {
		return nil, err
	}

	next := *u
	next.Name, next.Email = name, email
	if newName != "" {
		next.Image = &newName
	}
	err = s.users.UpdateProfile(ctx, &next)
	swapImage(s.images, s.log, media.Profile, err, newName, u.Image)
	if err != nil {
		if isConflict(err) {
			return nil, validate.FieldError("email", emailTaken)
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &next, nil
}
