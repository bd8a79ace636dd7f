// Package session 服务端会话：记录在 redis，cookie 只放签名后的 sid。
package session

import (
	"context"
	"time"

	"bookreview/internal/core/auth"
	"bookreview/pkg/utils"
)

const (
	FlashSuccess = "success"
	FlashError   = "error"
)

type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Session 请求内可变；修改过（dirty）才会在响应前写回
type Session struct {
	ID      string  `json:"id"`
	UserID  uint    `json:"uid,omitempty"`
	Flashes []Flash `json:"flashes,omitempty"`

	dirty bool
}

func (s *Session) Dirty() bool { return s.dirty }

// Empty 匿名且无 flash，不值得持久化
func (s *Session) Empty() bool { return s.UserID == 0 && len(s.Flashes) == 0 }

// Flash 写入一次性消息，下一次渲染时取出
func (s *Session) Flash(kind, msg string) {
	s.Flashes = append(s.Flashes, Flash{Kind: kind, Message: msg})
	s.dirty = true
}

func (s *Session) PopFlashes() []Flash {
	if len(s.Flashes) == 0 {
		return nil
	}
	out := s.Flashes
	s.Flashes = nil
	s.dirty = true
	return out
}

type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Set(ctx context.Context, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

type Manager struct {
	store Store
	codec *auth.Codec
	ttl   time.Duration
}

func NewManager(store Store, codec *auth.Codec) *Manager {
	return &Manager{store: store, codec: codec, ttl: codec.TTL}
}

func (m *Manager) TTL() time.Duration { return m.ttl }

func fresh() *Session { return &Session{ID: utils.NewID()} }

// Load 解析 cookie 取会话；token 无效或记录过期时返回新的匿名会话。
// 已登录会话标记 dirty，响应前续期（滑动过期）。
func (m *Manager) Load(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return fresh(), nil
	}
	sid, err := m.codec.Parse(token)
	if err != nil {
		return fresh(), nil
	}
	s, err := m.store.Get(ctx, sid)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return fresh(), nil
	}
	s.dirty = s.UserID != 0
	return s, nil
}

// Regenerate 登录时换新 sid（防会话固定），flash 保留
func (m *Manager) Regenerate(ctx context.Context, s *Session, userID uint) error {
	if err := m.store.Delete(ctx, s.ID); err != nil {
		return err
	}
	s.ID = utils.NewID()
	s.UserID = userID
	s.dirty = true
	return nil
}

// Destroy 删除服务端记录，s 变为新的匿名会话
func (m *Manager) Destroy(ctx context.Context, s *Session) error {
	if err := m.store.Delete(ctx, s.ID); err != nil {
		return err
	}
	s.ID = utils.NewID()
	s.UserID = 0
	s.dirty = true
	return nil
}

// Save 写回并返回 cookie 值；空会话删除记录并返回 ""（清 cookie）
func (m *Manager) Save(ctx context.Context, s *Session) (string, error) {
	s.dirty = false
	if s.Empty() {
		return "", m.store.Delete(ctx, s.ID)
	}
	if err := m.store.Set(ctx, s, m.ttl); err != nil {
		return "", err
	}
	return m.codec.Issue(s.ID)
}
