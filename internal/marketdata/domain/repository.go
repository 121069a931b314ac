package domain

import "context"

type QuoteRepository interface {
	Save(ctx context.Context, quote *Quote) error
	GetLatest(ctx context.Context, symbol string) (*Quote, error)
	// GetRecent 按时间倒序返回最近的行情记录
	GetRecent(ctx context.Context, symbol string, limit int) ([]*Quote, error)
}
