package redis_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ISequenceRepository 訂單編號流水號
type ISequenceRepository interface {
	NextOrderNo(ctx context.Context, now time.Time) (string, error)
}

// SequenceRepo 以redis INCR產生每日流水號
// key按日期切分, 跨日自動歸一
type SequenceRepo struct {
	rdb *redis.Client
}

func NewSequenceRepo(rdb *redis.Client) *SequenceRepo {
	return &SequenceRepo{rdb: rdb}
}

func generateSequenceKey(day string) string {
	return fmt.Sprintf("orderno:%s", day)
}

// NextOrderNo 格式 ORD-YYYYMMDD-NNNNN
func (r *SequenceRepo) NextOrderNo(ctx context.Context, now time.Time) (string, error) {
	day := now.Format("20060102")
	key := generateSequenceKey(day)

	seq, err := r.rdb.Incr(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("failed to increment order sequence: %w", err)
	}
	if seq == 1 {
		// 過期時間留到隔日之後即可
		r.rdb.Expire(ctx, key, 48*time.Hour)
	}

	return fmt.Sprintf("ORD-%s-%05d", day, seq), nil
}

var _ ISequenceRepository = (*SequenceRepo)(nil)
