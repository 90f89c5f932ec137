package infra

import (
	"context"
	"strings"
	"time"

	"banner-guard/middleware/ratelimit/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStatsStore grava os contadores em hashes:
//
//	{prefix}:total              allowed/denied, cumulativo
//	{prefix}:minute:YYYYMMDDhhmm série por minuto, com TTL
//	{prefix}:route              "{rota}:allowed" / "{rota}:denied"
//	{prefix}:key:{id}           por usuário, só com trackKeys, com TTL
type RedisStatsStore struct {
	rdb       redis.UniversalClient
	prefix    string
	ttl       time.Duration
	bucket    string // "minute" ou "none"
	trackKeys bool
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.prefix = strings.Trim(prefix, ":") }
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func WithStatsTrackKeys(track bool) RedisStatsOption {
	return func(s *RedisStatsStore) { s.trackKeys = track }
}

func NewRedisStatsStore(rdb redis.UniversalClient, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{rdb: rdb, prefix: "ratelimit:stats", ttl: 24 * time.Hour, bucket: "minute"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record incrementa todos os contadores do evento num único pipeline.
func (s *RedisStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	field := "denied"
	if ev.Allowed {
		field = "allowed"
	}

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.prefix+":total", field, 1)

	if s.bucket == "minute" {
		s.incrExpiring(ctx, pipe, s.prefix+":minute:"+at.UTC().Format("200601021504"), field)
	}
	if route := strings.TrimSpace(ev.Route); route != "" {
		pipe.HIncrBy(ctx, s.prefix+":route", route+":"+field, 1)
	}
	if k := strings.TrimSpace(string(ev.Key)); s.trackKeys && k != "" {
		s.incrExpiring(ctx, pipe, s.prefix+":key:"+k, field)
	}

	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStatsStore) incrExpiring(ctx context.Context, pipe redis.Pipeliner, key, field string) {
	pipe.HIncrBy(ctx, key, field, 1)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
}
