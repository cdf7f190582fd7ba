package session

import (
	stderrors "errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wfunc/game-portal/internal/errors"
)

const tokenIssuer = "game-portal"

// Claims 会话令牌载荷
type Claims struct {
	SessionID string `json:"sid"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// Identity 令牌中携带的身份
func (c *Claims) Identity() Identity {
	return Identity{Subject: c.Subject, Role: c.Role}
}

// TokenManager 签发和校验 HS256 会话令牌
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager 创建令牌管理器
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL 令牌有效期
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue 为会话签发令牌
func (m *TokenManager) Issue(sessionID string, id Identity) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)

	claims := &Claims{
		SessionID: sessionID,
		Role:      id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   id.Subject,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, errors.ErrSessionInvalid, "签发令牌失败")
	}
	return signed, expiresAt, nil
}

// Parse 校验签名和有效期
func (m *TokenManager) Parse(token string) (*Claims, error) {
	if token == "" {
		return nil, errors.New(errors.ErrSessionInvalid, "缺少令牌")
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, stderrors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithIssuer(tokenIssuer))
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Wrap(err, errors.ErrSessionExpired)
		}
		return nil, errors.Wrap(err, errors.ErrSessionInvalid)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.SessionID == "" {
		return nil, errors.New(errors.ErrSessionInvalid)
	}
	return claims, nil
}
