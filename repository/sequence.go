package repository

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"hotel-pms/services"
)

// RedisSequence hands out check-in sequence numbers from a per-day INCR
// counter. The counter is seeded from the database so a flushed Redis does
// not restart numbering at 001.
type RedisSequence struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSequence(client *redis.Client) *RedisSequence {
	return &RedisSequence{Client: client, TTL: 48 * time.Hour}
}

func (s *RedisSequence) key(prefix string) string {
	return "hotel-pms:checkin-seq:" + prefix
}

func (s *RedisSequence) Next(ctx context.Context, tx services.Store, prefix string) (int, error) {
	n, err := tx.CountCheckInIDs(ctx, prefix)
	if err != nil {
		return 0, err
	}
	if s.Client == nil {
		return int(n) + 1, nil
	}

	key := s.key(prefix)
	if err := s.Client.SetNX(ctx, key, n, s.TTL).Err(); err != nil {
		log.Printf("warning: redis sequence seed failed, counting rows instead: %v", err)
		return int(n) + 1, nil
	}
	next, err := s.Client.Incr(ctx, key).Result()
	if err != nil {
		log.Printf("warning: redis sequence incr failed, counting rows instead: %v", err)
		return int(n) + 1, nil
	}
	// never hand out a number the table already holds
	if next <= n {
		next = n + 1
		s.Client.Set(ctx, key, next, s.TTL)
	}
	return int(next), nil
}
