package utils

import (
	"crypto/rand"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// argon2id 参数，凭据只存在于进程内存中，不需要可配置
const (
	credentialTime    = 1
	credentialMemory  = 64 * 1024
	credentialThreads = 4
	credentialKeyLen  = 32
	credentialSaltLen = 16
)

// AdminCredential 管理员凭据。密码在启动时派生一次密钥，内存中不保留明文。
type AdminCredential struct {
	username string
	salt     []byte
	key      []byte
}

// NewAdminCredential 根据配置的用户名和明文密码构造凭据
func NewAdminCredential(username, password string) (*AdminCredential, error) {
	salt := make([]byte, credentialSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return &AdminCredential{
		username: username,
		salt:     salt,
		key:      deriveKey(password, salt),
	}, nil
}

// Username 管理员用户名
func (c *AdminCredential) Username() string {
	return c.username
}

// Matches 用户名和密码必须同时完全一致，两项都以常量时间比较
func (c *AdminCredential) Matches(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.username))
	passOK := subtle.ConstantTimeCompare(deriveKey(password, c.salt), c.key)
	return userOK&passOK == 1
}

func deriveKey(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, credentialTime, credentialMemory, credentialThreads, credentialKeyLen)
}
