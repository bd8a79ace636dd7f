package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "sess:"

func NewRedisClient(addr, pass string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}

// RedisStore 会话记录以 JSON 存在 sess:<id>，过期交给 redis TTL
type RedisStore struct {
	RDB *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore { return &RedisStore{RDB: rdb} }

func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	b, err := s.RDB.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *RedisStore) Set(ctx context.Context, sess *Session, ttl time.Duration) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.RDB.Set(ctx, keyPrefix+sess.ID, b, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.RDB.Del(ctx, keyPrefix+id).Err()
}
