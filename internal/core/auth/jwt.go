package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims 会话 cookie 只携带 sid，用户与角色以 redis 中的会话记录为准
type Claims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// Codec 对 session id 签名 / 验签（HS256）
type Codec struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

func (c *Codec) Issue(sid string) (string, error) {
	now := time.Now()
	claims := Claims{
		SID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.Secret)
}

func (c *Codec) Parse(tokenStr string) (string, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return c.Secret, nil
	}, jwt.WithIssuer(c.Issuer), jwt.WithLeeway(60*time.Second))

	if err != nil {
		return "", err
	}
	if cl, ok := t.Claims.(*Claims); ok && t.Valid && cl.SID != "" {
		return cl.SID, nil
	}
	return "", errors.New("invalid token")
}
