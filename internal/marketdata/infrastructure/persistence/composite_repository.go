package persistence

import (
	"context"

	"github.com/wyfcoding/optionpricing/internal/marketdata/domain"
)

type compositeQuoteRepository struct {
	mysql domain.QuoteRepository
	redis domain.QuoteRepository
}

// NewCompositeQuoteRepository 创建一个组合仓储，支持 MySQL 持久化和 Redis 缓存。
func NewCompositeQuoteRepository(mysql, redis domain.QuoteRepository) domain.QuoteRepository {
	return &compositeQuoteRepository{
		mysql: mysql,
		redis: redis,
	}
}

func (r *compositeQuoteRepository) Save(ctx context.Context, quote *domain.Quote) error {
	// 双写：先写 MySQL (持久化)，再写 Redis (缓存)
	if err := r.mysql.Save(ctx, quote); err != nil {
		return err
	}
	return r.redis.Save(ctx, quote)
}

func (r *compositeQuoteRepository) GetLatest(ctx context.Context, symbol string) (*domain.Quote, error) {
	// 先读 Redis
	quote, err := r.redis.GetLatest(ctx, symbol)
	if err == nil && quote != nil {
		return quote, nil
	}
	// Redis 不存在则读 MySQL
	return r.mysql.GetLatest(ctx, symbol)
}

func (r *compositeQuoteRepository) GetRecent(ctx context.Context, symbol string, limit int) ([]*domain.Quote, error) {
	// 历史序列只读 MySQL
	return r.mysql.GetRecent(ctx, symbol, limit)
}
