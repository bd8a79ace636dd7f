package auth

import "bookreview/internal/domain"

// Principal 当前请求的身份；User 为 nil 即匿名
type Principal struct {
	User *domain.User
}

func (p *Principal) Authenticated() bool { return p != nil && p.User != nil }

// Gate 纯函数：只看身份，不碰数据
type Gate func(p *Principal) error

func GuestOnly(p *Principal) error {
	if p.Authenticated() {
		return domain.ErrAlreadyAuthenticated
	}
	return nil
}

func AuthRequired(p *Principal) error {
	if !p.Authenticated() {
		return domain.ErrUnauthorized
	}
	return nil
}

// AdminRequired 隐含 AuthRequired
func AdminRequired(p *Principal) error {
	if err := AuthRequired(p); err != nil {
		return err
	}
	if !p.User.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

// Check 按顺序执行，第一个失败即返回
func Check(p *Principal, gates ...Gate) error {
	for _, g := range gates {
		if err := g(p); err != nil {
			return err
		}
	}
	return nil
}
