package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreview/internal/domain"
)

func TestCodecRoundTrip(t *testing.T) {
	c := &Codec{Secret: []byte("s3cret"), Issuer: "bookreview", TTL: time.Hour}
	tok, err := c.Issue("abc123")
	require.NoError(t, err)

	sid, err := c.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "abc123", sid)
}

func TestCodecRejects(t *testing.T) {
	c := &Codec{Secret: []byte("s3cret"), Issuer: "bookreview", TTL: time.Hour}
	tok, err := c.Issue("abc123")
	require.NoError(t, err)

	other := &Codec{Secret: []byte("other"), Issuer: "bookreview", TTL: time.Hour}
	_, err = other.Parse(tok)
	assert.Error(t, err)

	wrongIss := &Codec{Secret: []byte("s3cret"), Issuer: "someone-else", TTL: time.Hour}
	_, err = wrongIss.Parse(tok)
	assert.Error(t, err)

	expired := &Codec{Secret: []byte("s3cret"), Issuer: "bookreview", TTL: -time.Hour}
	tok, err = expired.Issue("abc123")
	require.NoError(t, err)
	_, err = c.Parse(tok)
	assert.Error(t, err)

	_, err = c.Parse("garbage")
	assert.Error(t, err)
}

func TestGates(t *testing.T) {
	anon := &Principal{}
	user := &Principal{User: &domain.User{ID: 1, Role: domain.RoleUser}}
	admin := &Principal{User: &domain.User{ID: 2, Role: domain.RoleAdmin}}

	cases := []struct {
		name  string
		p     *Principal
		gates []Gate
		want  error
	}{
		{"guest ok", anon, []Gate{GuestOnly}, nil},
		{"guest rejects user", user, []Gate{GuestOnly}, domain.ErrAlreadyAuthenticated},
		{"auth rejects anon", anon, []Gate{AuthRequired}, domain.ErrUnauthorized},
		{"auth ok", user, []Gate{AuthRequired}, nil},
		{"admin rejects anon", anon, []Gate{AdminRequired}, domain.ErrUnauthorized},
		{"admin rejects user", user, []Gate{AuthRequired, AdminRequired}, domain.ErrForbidden},
		{"admin ok", admin, []Gate{AuthRequired, AdminRequired}, nil},
		{"nil principal", nil, []Gate{AuthRequired}, domain.ErrUnauthorized},
		{"no gates", anon, nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Check(tc.p, tc.gates...)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
