package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL           = 10 * time.Second
	DefaultRetryInterval = 50 * time.Millisecond
	defaultPrefix        = "salon-booking:lock:"
)

// releaseScript удаляет ключ, только если он все еще принадлежит владельцу токена
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// RedisLocker распределенная блокировка на SET NX PX.
// TTL ограничивает время удержания, если процесс упал, не сняв блокировку.
type RedisLocker struct {
	client        redis.UniversalClient
	ttl           time.Duration
	retryInterval time.Duration
	prefix        string
	logger        Logger
}

// NewRedisLocker создает распределенный менеджер блокировок
func NewRedisLocker(client redis.UniversalClient, ttl, retryInterval time.Duration, logger Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if retryInterval <= 0 {
		retryInterval = DefaultRetryInterval
	}
	return &RedisLocker{
		client:        client,
		ttl:           ttl,
		retryInterval: retryInterval,
		prefix:        defaultPrefix,
		logger:        logger,
	}
}

// Lock берет блокировку key, повторяя попытки до отмены ctx
func (l *RedisLocker) Lock(ctx context.Context, key string) (UnlockFunc, error) {
	redisKey := l.prefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(l.retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", ErrLockTimeout, ctx.Err())
			}
			return nil, fmt.Errorf("%w: SetNX %s: %v", ErrLockBackend, redisKey, err)
		}
		if ok {
			return l.unlockFunc(redisKey, token), nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %v", ErrLockTimeout, redisKey, ctx.Err())
		}
	}
}

func (l *RedisLocker) unlockFunc(redisKey, token string) UnlockFunc {
	var once sync.Once
	return func() {
		once.Do(func() { l.release(redisKey, token) })
	}
}

func (l *RedisLocker) release(redisKey, token string) {
	// снимаем блокировку даже если контекст запроса уже отменен
	ctx, cancel := context.WithTimeout(context.Background(), l.ttl)
	defer cancel()

	if err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil && l.logger != nil {
		l.logger.Warn("lock: failed to release %s: %v", redisKey, err)
	}
}
