package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wyfcoding/optionpricing/internal/marketdata/domain"
)

// MarketDataCommandService 处理所有行情写入操作（Commands）。
type MarketDataCommandService struct {
	repo   domain.QuoteRepository
	logger *slog.Logger
}

// NewMarketDataCommandService 构造函数。
func NewMarketDataCommandService(repo domain.QuoteRepository, logger *slog.Logger) *MarketDataCommandService {
	return &MarketDataCommandService{
		repo:   repo,
		logger: logger,
	}
}

// SaveQuote 保存报价数据
func (s *MarketDataCommandService) SaveQuote(ctx context.Context, cmd IngestQuoteCommand) error {
	if cmd.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}

	timestamp := cmd.Timestamp
	if timestamp <= 0 {
		timestamp = time.Now().UnixMilli()
	}

	quote := domain.NewQuote(cmd.Symbol, cmd.BidPrice, cmd.AskPrice, cmd.BidSize, cmd.AskSize, cmd.LastPrice, cmd.LastSize, timestamp, cmd.Source)
	if err := s.repo.Save(ctx, quote); err != nil {
		s.logger.ErrorContext(ctx, "failed to save quote",
			"symbol", cmd.Symbol,
			"source", cmd.Source,
			"error", err)
		return err
	}
	return nil
}
