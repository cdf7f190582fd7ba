package middleware

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/wfunc/game-portal/internal/logger"
	"github.com/wfunc/game-portal/internal/session"
	"go.uber.org/zap"
)

// 身份以 "role:<角色>" 作为主体，路径用 keyMatch2 匹配
const authzModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// DefaultPolicies 管理员可以访问后台全部路径
var DefaultPolicies = [][]string{
	{"role:" + session.RoleAdmin, "/admin", "^(GET|POST)$"},
	{"role:" + session.RoleAdmin, "/admin/*", "^(GET|POST)$"},
}

// Authorizer 基于 casbin 的能力判断
type Authorizer struct {
	enforcer *casbin.Enforcer
}

// NewAuthorizer 用内置模型和给定策略创建
func NewAuthorizer(policies [][]string) (*Authorizer, error) {
	m, err := model.NewModelFromString(authzModel)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	if len(policies) > 0 {
		if _, err := enforcer.AddPolicies(policies); err != nil {
			return nil, err
		}
	}
	return &Authorizer{enforcer: enforcer}, nil
}

// Can 身份是否可以对路径执行方法
func (a *Authorizer) Can(identity session.Identity, method, path string) bool {
	if identity.IsZero() {
		return false
	}

	allowed, err := a.enforcer.Enforce("role:"+identity.Role, path, method)
	if err != nil {
		logger.WithModule("auth").Error("authz check failed", zap.Error(err))
		return false
	}
	if !allowed {
		logger.WithModule("auth").Warn("authz denied",
			zap.String("subject", identity.Subject),
			zap.String("role", identity.Role),
			zap.String("method", method),
			zap.String("path", path),
		)
	}
	return allowed
}
