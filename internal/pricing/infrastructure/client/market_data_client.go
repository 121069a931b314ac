// Package client 行情数据访问实现。
package client

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	marketdatadomain "github.com/wyfcoding/optionpricing/internal/marketdata/domain"
	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
)

// volatilityWindow 估算已实现波动率时回看的行情条数
const volatilityWindow = 252

// MarketDataClientImpl 行情服务客户端实现, 进程内直连行情仓储。
type MarketDataClientImpl struct {
	quotes marketdatadomain.QuoteRepository
}

// NewMarketDataClient 创建行情数据客户端
func NewMarketDataClient(quotes marketdatadomain.QuoteRepository) domain.MarketDataClient {
	return &MarketDataClientImpl{quotes: quotes}
}

// GetPrice 获取最新价格
func (c *MarketDataClientImpl) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	quote, err := c.quotes.GetLatest(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	if quote == nil {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrQuoteNotFound, symbol)
	}
	return quote.ReferencePrice(), nil
}

// GetVolatility 基于最近行情估算年化已实现波动率
func (c *MarketDataClientImpl) GetVolatility(ctx context.Context, symbol string) (decimal.Decimal, error) {
	quotes, err := c.quotes.GetRecent(ctx, symbol, volatilityWindow)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(marketdatadomain.RealizedVolatility(quotes)), nil
}
