package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Публичный листинг каталога: canteen:items -> JSON-массив
const KeyCatalogItems = "canteen:items"

var TTLCatalog = 5 * time.Minute

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        addr,
		ReadTimeout: 2 * time.Second,
	})
}

// Get best-effort чтение; промах и ошибка неразличимы для вызывающего
func Get(ctx context.Context, rdb *redis.Client, key string) (string, bool) {
	if rdb == nil {
		return "", false
	}
	s, err := rdb.Get(ctx, key).Result()
	if err != nil || s == "" {
		return "", false
	}
	return s, true
}

// Set best-effort запись; ошибки глотаются
func Set(ctx context.Context, rdb *redis.Client, key, value string, ttl time.Duration) {
	if rdb == nil {
		return
	}
	_ = rdb.Set(ctx, key, value, ttl).Err()
}

// Invalidate best-effort удаление ключа
func Invalidate(ctx context.Context, rdb *redis.Client, key string) {
	if rdb == nil {
		return
	}
	_ = rdb.Del(ctx, key).Err()
}
