package infra

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"banner-guard/middleware/ratelimit/domain"

	"github.com/redis/go-redis/v9"
)

// acquireScript aplica a janela fixa num passo só.
// KEYS[1] = chave; ARGV = now(ms), window(ms), max.
// Retorna {allowed, count, resetAt(ms)}.
var acquireScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])
local count = tonumber(redis.call('HGET', KEYS[1], 'count'))
local reset = tonumber(redis.call('HGET', KEYS[1], 'reset'))
if count == nil or reset == nil or now > reset then
  reset = now + window
  redis.call('HSET', KEYS[1], 'count', 1, 'reset', reset)
  redis.call('PEXPIRE', KEYS[1], window + 1000)
  return {1, 1, reset}
end
if count < max then
  count = redis.call('HINCRBY', KEYS[1], 'count', 1)
  return {1, count, reset}
end
return {0, count, reset}
`)

// RedisStore guarda as entradas num hash por chave (count, reset em ms).
// Implementa AtomicStore via script Lua, então várias réplicas
// compartilham a mesma cota sem lost update.
// A expiração física fica a cargo do TTL do Redis; não há Sweep.
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
}

type RedisStoreOption func(*RedisStore)

func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) { s.prefix = strings.Trim(prefix, ":") }
}

func NewRedisStore(rdb redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{rdb: rdb, prefix: "ratelimit"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(k domain.Key) string {
	return s.prefix + ":win:" + string(k)
}

func (s *RedisStore) Get(ctx context.Context, k domain.Key) (domain.Entry, bool, error) {
	vals, err := s.rdb.HMGet(ctx, s.key(k), "count", "reset").Result()
	if err != nil {
		return domain.Entry{}, false, err
	}
	if len(vals) != 2 || vals[0] == nil || vals[1] == nil {
		return domain.Entry{}, false, nil
	}
	count, err := strconv.Atoi(toString(vals[0]))
	if err != nil {
		return domain.Entry{}, false, err
	}
	reset, err := strconv.ParseInt(toString(vals[1]), 10, 64)
	if err != nil {
		return domain.Entry{}, false, err
	}
	return domain.Entry{Count: count, ResetAt: time.UnixMilli(reset)}, true, nil
}

// Set grava e expira a chave 1s depois de ResetAt, que já vem do relógio
// do service; o store não consulta o relógio.
func (s *RedisStore) Set(ctx context.Context, k domain.Key, e domain.Entry) error {
	key := s.key(k)
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, "count", e.Count, "reset", e.ResetAt.UnixMilli())
	pipe.PExpireAt(ctx, key, e.ResetAt.Add(time.Second))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Delete(ctx context.Context, k domain.Key) error {
	return s.rdb.Del(ctx, s.key(k)).Err()
}

func (s *RedisStore) Acquire(ctx context.Context, k domain.Key, p domain.Policy, now time.Time) (domain.Decision, error) {
	res, err := acquireScript.Run(ctx, s.rdb, []string{s.key(k)},
		now.UnixMilli(), p.Window.Milliseconds(), p.Max).Int64Slice()
	if err != nil {
		return domain.Decision{}, err
	}
	if len(res) != 3 {
		return domain.Decision{}, errors.New("ratelimit: unexpected script reply")
	}

	resetAt := time.UnixMilli(res[2])
	dec := domain.Decision{
		Allowed:   res[0] == 1,
		Limit:     p.Max,
		Remaining: p.Max - int(res[1]),
		ResetAt:   resetAt,
	}
	if dec.Remaining < 0 {
		dec.Remaining = 0
	}
	if !dec.Allowed {
		dec.RetryAfter = resetAt.Sub(now)
	}
	return dec, nil
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return ""
	}
}
