package session

// RoleAdmin 唯一的受信操作员角色
const RoleAdmin = "admin"

// Identity 已认证的身份，随请求上下文传递
type Identity struct {
	Subject string `json:"subject"`
	Role    string `json:"role"`
}

// Admin 管理员身份
func Admin(username string) Identity {
	return Identity{Subject: username, Role: RoleAdmin}
}

// IsZero 是否为匿名
func (i Identity) IsZero() bool {
	return i.Subject == "" && i.Role == ""
}
