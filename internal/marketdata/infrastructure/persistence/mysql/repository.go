package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/wyfcoding/optionpricing/internal/marketdata/domain"
)

type quoteRepository struct {
	db *gorm.DB
}

// NewQuoteRepository 创建基于 MySQL 的行情仓储
func NewQuoteRepository(db *gorm.DB) domain.QuoteRepository {
	return &quoteRepository{db: db}
}

func (r *quoteRepository) Save(ctx context.Context, quote *domain.Quote) error {
	var po QuotePO
	po.FromDomain(quote)
	return r.db.WithContext(ctx).Create(&po).Error
}

func (r *quoteRepository) GetLatest(ctx context.Context, symbol string) (*domain.Quote, error) {
	var po QuotePO
	if err := r.db.WithContext(ctx).Where("symbol = ?", symbol).Order("timestamp desc").First(&po).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return po.ToDomain(), nil
}

// GetRecent 按时间倒序取最近 limit 条行情
func (r *quoteRepository) GetRecent(ctx context.Context, symbol string, limit int) ([]*domain.Quote, error) {
	var pos []*QuotePO
	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("timestamp desc").
		Limit(limit).
		Find(&pos).Error
	if err != nil {
		return nil, err
	}
	quotes := make([]*domain.Quote, 0, len(pos))
	for _, po := range pos {
		quotes = append(quotes, po.ToDomain())
	}
	return quotes, nil
}
