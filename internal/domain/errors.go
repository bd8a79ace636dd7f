package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrIO           = errors.New("io failure")

	// 登录失败不区分“邮箱不存在”和“密码错误”
	ErrInvalidCredentials   = Kind(ErrUnauthorized, "email/password is incorrect.")
	ErrAlreadyAuthenticated = errors.New("already authenticated")
	ErrAlreadyReviewed      = Kind(ErrConflict, "You already reviewed this book.")
	ErrBookNotFound         = Kind(ErrNotFound, "Book not found")
	ErrReviewNotFound       = Kind(ErrNotFound, "Review not found")
)

// kindErr 对外文案 + 归类哨兵（errors.Is 命中 kind）
type kindErr struct {
	kind error
	msg  string
}

func (e *kindErr) Error() string { return e.msg }
func (e *kindErr) Unwrap() error { return e.kind }

func Kind(kind error, msg string) error { return &kindErr{kind: kind, msg: msg} }

// Message 取链上第一个可对外展示的文案，没有则返回 ""
func Message(err error) string {
	var k *kindErr
	if errors.As(err, &k) {
		return k.msg
	}
	return ""
}
