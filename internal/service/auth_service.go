package service

import (
	"context"

	"github.com/wfunc/game-portal/internal/errors"
	"github.com/wfunc/game-portal/internal/session"
	"github.com/wfunc/game-portal/internal/utils"
	"go.uber.org/zap"
)

// ErrInvalidCredentials 用户名或密码错误
var ErrInvalidCredentials = errors.New(errors.ErrAuthentication, "用户名或密码错误")

type authService struct {
	credential *utils.AdminCredential
	sessions   *session.Manager
	log        *zap.Logger
}

// NewAuthService 创建认证服务
func NewAuthService(credential *utils.AdminCredential, sessions *session.Manager, log *zap.Logger) AuthService {
	return &authService{
		credential: credential,
		sessions:   sessions,
		log:        log,
	}
}

// Login 凭据完全匹配时开启会话。没有锁定和限速。
func (s *authService) Login(ctx context.Context, username, password string) (*session.Session, error) {
	if !s.credential.Matches(username, password) {
		s.log.Warn("login rejected", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	sess, err := s.sessions.Create(ctx, session.Admin(s.credential.Username()))
	if err != nil {
		return nil, err
	}
	s.log.Info("login", zap.String("username", username))
	return sess, nil
}

// Logout 无条件销毁会话
func (s *authService) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

// Authenticate 解析令牌得到身份
func (s *authService) Authenticate(ctx context.Context, token string) (*session.Identity, error) {
	return s.sessions.Resolve(ctx, token)
}
