package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wfunc/game-portal/internal/config"
	"github.com/wfunc/game-portal/internal/errors"
	"github.com/wfunc/game-portal/internal/logger"
	"go.uber.org/zap"
)

// Session 一次管理员登录
type Session struct {
	ID        string
	Token     string
	Identity  Identity
	ExpiresAt time.Time
}

// Manager 会话生命周期：签发、解析、销毁
type Manager struct {
	tokens *TokenManager
	store  Store
	log    *zap.Logger
}

// NewManager 创建会话管理器
func NewManager(tokens *TokenManager, store Store) *Manager {
	return &Manager{
		tokens: tokens,
		store:  store,
		log:    logger.WithModule("auth"),
	}
}

// NewStore 按配置选择会话存储
func NewStore(cfg config.SessionConfig) (Store, error) {
	switch cfg.Store {
	case "", "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(cfg.Redis)
	default:
		return nil, errors.Newf(errors.ErrConfigValidate, "unknown session store %q", cfg.Store)
	}
}

// FromConfig 由配置构造会话管理器
func FromConfig(cfg config.SessionConfig) (*Manager, error) {
	store, err := NewStore(cfg)
	if err != nil {
		return nil, err
	}
	return NewManager(NewTokenManager(cfg.Secret, cfg.TTL), store), nil
}

// Create 为身份开启新会话
func (m *Manager) Create(ctx context.Context, identity Identity) (*Session, error) {
	id := uuid.NewString()
	token, expiresAt, err := m.tokens.Issue(id, identity)
	if err != nil {
		return nil, err
	}
	if err := m.store.Put(ctx, id, identity, m.tokens.TTL()); err != nil {
		return nil, err
	}

	m.log.Info("session created", zap.String("sid", id), zap.String("subject", identity.Subject))
	return &Session{ID: id, Token: token, Identity: identity, ExpiresAt: expiresAt}, nil
}

// Resolve 令牌有效且会话仍存活时返回身份
func (m *Manager) Resolve(ctx context.Context, token string) (*Identity, error) {
	claims, err := m.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	identity, ok, err := m.store.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New(errors.ErrSessionExpired, "会话已注销或过期")
	}
	return &identity, nil
}

// Destroy 销毁会话。令牌无效时视为已注销。
func (m *Manager) Destroy(ctx context.Context, token string) error {
	claims, err := m.tokens.Parse(token)
	if err != nil {
		return nil
	}
	if err := m.store.Delete(ctx, claims.SessionID); err != nil {
		return err
	}
	m.log.Info("session destroyed", zap.String("sid", claims.SessionID))
	return nil
}

// TTL 会话有效期
func (m *Manager) TTL() time.Duration {
	return m.tokens.TTL()
}

// Close 释放存储连接
func (m *Manager) Close() error {
	return m.store.Close()
}
