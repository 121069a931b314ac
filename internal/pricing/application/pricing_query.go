package application

import (
	"context"
	"log/slog"

	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
)

// PricingQueryService 处理定价相关的查询操作, 纯计算路径, 不发事件
type PricingQueryService struct {
	model      *domain.BinomialModel
	marketData domain.MarketDataClient
	logger     *slog.Logger
}

// NewPricingQueryService 创建定价查询服务
func NewPricingQueryService(model *domain.BinomialModel, marketData domain.MarketDataClient, logger *slog.Logger) *PricingQueryService {
	return &PricingQueryService{
		model:      model,
		marketData: marketData,
		logger:     logger,
	}
}

// GetGreeks 计算希腊字母。与命令路径不同, 扰动不可行时直接返回错误而不是置零
func (q *PricingQueryService) GetGreeks(ctx context.Context, cmd PriceOptionCommand) (*domain.Greeks, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	optionType, in, _, err := resolveBinomialInput(ctx, q.marketData, cmd)
	if err != nil {
		return nil, err
	}

	lat, err := domain.NewLattice(in)
	if err != nil {
		return nil, err
	}
	if !lat.Stable() {
		q.logger.WarnContext(ctx, "risk neutral probability outside [0,1]",
			"symbol", cmd.Symbol, "p", lat.P, "steps", in.Steps)
	}

	greeks, err := q.model.CalculateGreeks(optionType, in)
	if err != nil {
		return nil, err
	}
	return &greeks, nil
}
