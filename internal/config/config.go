package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Uploads UploadsConfig `mapstructure:"uploads"`
	Session SessionConfig `mapstructure:"session"`
	Admin   AdminConfig   `mapstructure:"admin"`
	Site    SiteConfig    `mapstructure:"site"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr 监听地址
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StorageConfig 目录存储配置
type StorageConfig struct {
	Driver          string        `mapstructure:"driver"` // json, sqlite, mysql, postgres
	DataDir         string        `mapstructure:"data_dir"`
	DSN             string        `mapstructure:"dsn"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// UploadsConfig 缩略图上传配置
type UploadsConfig struct {
	Driver    string `mapstructure:"driver"` // file, s3
	Dir       string `mapstructure:"dir"`
	URLPrefix string `mapstructure:"url_prefix"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	MaxMemory int64  `mapstructure:"max_memory"`
}

// SessionConfig 会话配置
type SessionConfig struct {
	Secret     string        `mapstructure:"secret"`
	CookieName string        `mapstructure:"cookie_name"`
	TTL        time.Duration `mapstructure:"ttl"`
	Secure     bool          `mapstructure:"secure"`
	Store      string        `mapstructure:"store"` // memory, redis
	Redis      RedisConfig   `mapstructure:"redis"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// AdminConfig 管理员凭据
type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// SiteConfig 站点配置
type SiteConfig struct {
	Title       string `mapstructure:"title"`
	PublicDir   string `mapstructure:"public_dir"`
	Placeholder string `mapstructure:"placeholder"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level   string            `mapstructure:"level"`
	Format  string            `mapstructure:"format"`
	Output  string            `mapstructure:"output"`
	File    LogFileConfig     `mapstructure:"file"`
	Modules map[string]string `mapstructure:"modules"`
}

// LogFileConfig 日志文件配置
type LogFileConfig struct {
	Path       string `mapstructure:"path"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

var (
	cfg  *Config
	once sync.Once
	mu   sync.RWMutex
	v    *viper.Viper
)

// 原有部署直接使用的环境变量，不带前缀
var legacyEnv = map[string]string{
	"admin.username": "ADMIN_USERNAME",
	"admin.password": "ADMIN_PASSWORD",
	"session.secret": "SESSION_SECRET",
	"server.port":    "PORT",
}

// Init 初始化配置
func Init(configPath string) error {
	var err error
	once.Do(func() {
		v = viper.New()
		cfg, err = load(v, configPath)
	})
	return err
}

// Load 读取一份独立的配置（不影响全局实例），供工具和测试使用
func Load(configPath string) (*Config, error) {
	return load(viper.New(), configPath)
}

func load(v *viper.Viper, configPath string) (*Config, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("GAME_PORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		// 前缀变量优先，其次是历史变量名
		_ = v.BindEnv(key, "GAME_PORTAL_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// 配置文件不存在时使用默认配置
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, err
	}
	return c, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// 服务器默认配置
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// 存储默认配置
	v.SetDefault("storage.driver", "json")
	v.SetDefault("storage.data_dir", "./data")
	v.SetDefault("storage.dsn", "./data/catalog.db")
	v.SetDefault("storage.max_idle_conns", 5)
	v.SetDefault("storage.max_open_conns", 20)
	v.SetDefault("storage.conn_max_lifetime", "1h")
	v.SetDefault("storage.log_level", "warn")
	v.SetDefault("storage.auto_migrate", true)

	// 上传默认配置
	v.SetDefault("uploads.driver", "file")
	v.SetDefault("uploads.dir", "./public/uploads")
	v.SetDefault("uploads.url_prefix", "/uploads")
	v.SetDefault("uploads.max_memory", 32<<20)

	// 会话默认配置（不安全的默认值，仅用于本地开发）
	v.SetDefault("session.secret", "secret")
	v.SetDefault("session.cookie_name", "portal_session")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.secure", false)
	v.SetDefault("session.store", "memory")
	v.SetDefault("session.redis.addr", "127.0.0.1:6379")
	v.SetDefault("session.redis.prefix", "portal:session:")

	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "admin")

	v.SetDefault("site.title", "Game Portal")
	v.SetDefault("site.public_dir", "./public")
	v.SetDefault("site.placeholder", "/img/placeholder.png")

	// 日志默认配置
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file.path", "./logs")
	v.SetDefault("log.file.filename", "game-portal.log")
	v.SetDefault("log.file.max_size", 100)
	v.SetDefault("log.file.max_age", 30)
	v.SetDefault("log.file.max_backups", 7)
	v.SetDefault("log.file.compress", true)
}

// Get 获取配置实例
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// Watch 监听配置文件变化
func Watch(callback func(*Config)) {
	if v == nil || v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		newCfg := &Config{}
		if err := v.Unmarshal(newCfg); err != nil {
			fmt.Printf("配置重载失败: %v\n", err)
			return
		}

		mu.Lock()
		cfg = newCfg
		mu.Unlock()

		if callback != nil {
			callback(newCfg)
		}
	})
	v.WatchConfig()
}

// GetString 获取字符串配置
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// ConfigFile 当前使用的配置文件
func ConfigFile() string {
	if v == nil {
		return ""
	}
	return v.ConfigFileUsed()
}
