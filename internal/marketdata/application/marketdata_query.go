package application

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/optionpricing/internal/marketdata/domain"
)

// volatilityWindow 估算已实现波动率时回看的行情条数
const volatilityWindow = 252

// MarketDataQueryService 处理所有行情读取操作（Queries）。
type MarketDataQueryService struct {
	repo domain.QuoteRepository
}

// NewMarketDataQueryService 构造函数。
func NewMarketDataQueryService(repo domain.QuoteRepository) *MarketDataQueryService {
	return &MarketDataQueryService{repo: repo}
}

// GetLatestQuote 获取最新报价, 不存在时返回 (nil, nil)
func (q *MarketDataQueryService) GetLatestQuote(ctx context.Context, symbol string) (*QuoteDTO, error) {
	quote, err := q.repo.GetLatest(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, nil
	}
	return toQuoteDTO(quote), nil
}

// GetRecentQuotes 按时间倒序获取最近的报价
func (q *MarketDataQueryService) GetRecentQuotes(ctx context.Context, symbol string, limit int) ([]*QuoteDTO, error) {
	if limit <= 0 {
		limit = 100
	}
	quotes, err := q.repo.GetRecent(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]*QuoteDTO, len(quotes))
	for i, quote := range quotes {
		dtos[i] = toQuoteDTO(quote)
	}
	return dtos, nil
}

// GetVolatility 基于最近行情估算年化已实现波动率, 样本不足时退回默认值
func (q *MarketDataQueryService) GetVolatility(ctx context.Context, symbol string) (decimal.Decimal, error) {
	quotes, err := q.repo.GetRecent(ctx, symbol, volatilityWindow)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(domain.RealizedVolatility(quotes)), nil
}

// 辅助函数：领域实体转 DTO
func toQuoteDTO(quote *domain.Quote) *QuoteDTO {
	return &QuoteDTO{
		Symbol:    quote.Symbol,
		BidPrice:  quote.BidPrice.String(),
		AskPrice:  quote.AskPrice.String(),
		BidSize:   quote.BidSize.String(),
		AskSize:   quote.AskSize.String(),
		LastPrice: quote.LastPrice.String(),
		LastSize:  quote.LastSize.String(),
		Timestamp: quote.Timestamp,
		Source:    quote.Source,
	}
}
