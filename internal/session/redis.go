package session

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wfunc/game-portal/internal/config"
	"github.com/wfunc/game-portal/internal/errors"
)

// RedisStore 会话存于 Redis，多实例部署时共享
type RedisStore struct {
	cli    *redis.Client
	prefix string
}

// NewRedisStore 连接 Redis 并探活
func NewRedisStore(cfg config.RedisConfig) (*RedisStore, error) {
	cli := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := cli.Ping(ctx).Err(); err != nil {
		_ = cli.Close()
		return nil, errors.Wrapf(err, errors.ErrDatabaseConnect, "redis %s", cfg.Addr)
	}

	return &RedisStore{cli: cli, prefix: cfg.Prefix}, nil
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) Put(ctx context.Context, id string, identity Identity, ttl time.Duration) error {
	b, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	if err := s.cli.Set(ctx, s.key(id), b, ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrStorageWrite, "写入会话失败")
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (Identity, bool, error) {
	b, err := s.cli.Get(ctx, s.key(id)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return Identity{}, false, nil
	}
	if err != nil {
		return Identity{}, false, errors.Wrap(err, errors.ErrStorageRead, "读取会话失败")
	}

	var identity Identity
	if err := json.Unmarshal(b, &identity); err != nil {
		return Identity{}, false, errors.Wrap(err, errors.ErrSessionInvalid)
	}
	return identity, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.cli.Del(ctx, s.key(id)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrStorageWrite, "删除会话失败")
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.cli.Close()
}
