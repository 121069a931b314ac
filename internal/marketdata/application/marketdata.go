package application

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/optionpricing/internal/marketdata/domain"
)

// MarketDataService 行情门面服务。
type MarketDataService struct {
	Command *MarketDataCommandService
	Query   *MarketDataQueryService
}

// NewMarketDataService 构造函数。
func NewMarketDataService(repo domain.QuoteRepository, logger *slog.Logger) *MarketDataService {
	return &MarketDataService{
		Command: NewMarketDataCommandService(repo, logger),
		Query:   NewMarketDataQueryService(repo),
	}
}

// --- Command Facade ---

func (s *MarketDataService) SaveQuote(ctx context.Context, cmd IngestQuoteCommand) error {
	return s.Command.SaveQuote(ctx, cmd)
}

// --- Query Facade ---

func (s *MarketDataService) GetLatestQuote(ctx context.Context, symbol string) (*QuoteDTO, error) {
	return s.Query.GetLatestQuote(ctx, symbol)
}

func (s *MarketDataService) GetRecentQuotes(ctx context.Context, symbol string, limit int) ([]*QuoteDTO, error) {
	return s.Query.GetRecentQuotes(ctx, symbol, limit)
}

func (s *MarketDataService) GetVolatility(ctx context.Context, symbol string) (decimal.Decimal, error) {
	return s.Query.GetVolatility(ctx, symbol)
}
