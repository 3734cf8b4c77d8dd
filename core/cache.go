package core

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// TokenCache 租户 token 的二级缓存后端
// 进程内存始终是一级缓存，这里只负责跨进程复用
type TokenCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// ---------- 内存缓存 ----------

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value    string
	expireAt time.Time
}

// NewMemoryCache 进程内缓存，进程退出即失效
func NewMemoryCache() TokenCache {
	return &memoryCache{entries: make(map[string]memoryEntry)}
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expireAt) {
		return "", nil
	}
	return e.value, nil
}

func (c *memoryCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{value: value, expireAt: time.Now().Add(ttl)}
	return nil
}

func (c *memoryCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// ---------- 文件缓存 ----------

type fileCache struct {
	path string
}

type fileEntry struct {
	Value    string `json:"value"`
	ExpireAt int64  `json:"expire_at"`
}

// NewFileCache 磁盘缓存，单文件存单个 key，权限 0600
func NewFileCache(path string) TokenCache {
	return &fileCache{path: path}
}

func (c *fileCache) Get(ctx context.Context, key string) (string, error) {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(err, "读取 token 缓存文件失败")
	}

	entries := make(map[string]fileEntry)
	if err = jsoniter.Unmarshal(raw, &entries); err != nil {
		// 缓存文件损坏按缓存未命中处理
		return "", nil
	}

	e, ok := entries[key]
	if !ok || time.Now().Unix() >= e.ExpireAt {
		return "", nil
	}
	return e.Value, nil
}

func (c *fileCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	entries := make(map[string]fileEntry)
	if raw, err := os.ReadFile(c.path); err == nil {
		_ = jsoniter.Unmarshal(raw, &entries)
	}
	entries[key] = fileEntry{Value: value, ExpireAt: time.Now().Add(ttl).Unix()}

	raw, err := jsoniter.Marshal(entries)
	if err != nil {
		return errors.Wrap(err, "序列化 token 缓存失败")
	}
	if dir := filepath.Dir(c.path); dir != "." {
		if err = os.MkdirAll(dir, 0o700); err != nil {
			return errors.Wrap(err, "创建 token 缓存目录失败")
		}
	}
	if err = os.WriteFile(c.path, raw, 0o600); err != nil {
		return errors.Wrap(err, "写入 token 缓存文件失败")
	}
	return nil
}

func (c *fileCache) Del(ctx context.Context, key string) error {
	entries := make(map[string]fileEntry)
	raw, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "读取 token 缓存文件失败")
	}
	if err = jsoniter.Unmarshal(raw, &entries); err != nil {
		return os.Remove(c.path)
	}
	delete(entries, key)
	raw, err = jsoniter.Marshal(entries)
	if err != nil {
		return errors.Wrap(err, "序列化 token 缓存失败")
	}
	return os.WriteFile(c.path, raw, 0o600)
}

// ---------- Redis 缓存 ----------

type redisCache struct {
	rdb *redis.Client
}

// NewRedisCache 多实例共享的 Redis 缓存
func NewRedisCache(address, password string) TokenCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
	})
	return &redisCache{rdb: rdb}
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "读取 Redis 缓存失败")
	}
	return value, nil
}

func (c *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return errors.Wrap(err, "写入 Redis 缓存失败")
	}
	return nil
}

func (c *redisCache) Del(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return errors.Wrap(err, "删除 Redis 缓存失败")
	}
	return nil
}
