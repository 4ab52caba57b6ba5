package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"campus/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Verifier проверяет bearer-токен и восстанавливает Principal
type Verifier interface {
	Verify(token string) (domain.Principal, error)
}

// TokenAuthority выпускает и проверяет HMAC-SHA256 токены.
// Токен: base64url(payload JSON) + "." + base64url(подпись payload).
type TokenAuthority struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenAuthority(secret string, ttl time.Duration) *TokenAuthority {
	return &TokenAuthority{secret: []byte(secret), ttl: ttl}
}

type claims struct {
	Sub      string      `json:"sub"`
	Role     domain.Role `json:"role"`
	Verified bool        `json:"verified"`
	Exp      int64       `json:"exp"`
}

// Issue выпускает токен для пользователя со сроком действия ttl
func (a *TokenAuthority) Issue(p domain.Principal) (string, error) {
	c := claims{
		Sub:      p.ID,
		Role:     p.Role,
		Verified: p.Verified,
		Exp:      time.Now().Add(a.ttl).Unix(),
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	enc := base64.RawURLEncoding.EncodeToString(payload)
	return enc + "." + a.sign(enc), nil
}

// Verify проверяет подпись и срок действия токена
func (a *TokenAuthority) Verify(token string) (domain.Principal, error) {
	enc, sig, ok := strings.Cut(token, ".")
	if !ok {
		return domain.Principal{}, ErrInvalidToken
	}
	if !hmac.Equal([]byte(sig), []byte(a.sign(enc))) {
		return domain.Principal{}, ErrInvalidToken
	}
	payload, err := base64.RawURLEncoding.DecodeString(enc)
	if err != nil {
		return domain.Principal{}, ErrInvalidToken
	}
	var c claims
	if err := json.Unmarshal(payload, &c); err != nil {
		return domain.Principal{}, ErrInvalidToken
	}
	if c.Sub == "" {
		return domain.Principal{}, ErrInvalidToken
	}
	if time.Now().Unix() >= c.Exp {
		return domain.Principal{}, ErrTokenExpired
	}
	return domain.Principal{ID: c.Sub, Role: c.Role, Verified: c.Verified}, nil
}

func (a *TokenAuthority) sign(enc string) string {
	h := hmac.New(sha256.New, a.secret)
	h.Write([]byte(enc))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
