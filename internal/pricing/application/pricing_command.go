package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
	"github.com/wyfcoding/pkg/messagequeue"
)

// batchConcurrency 批量定价的并发上限
const batchConcurrency = 8

// PricingCommandService 处理定价相关的命令操作
// 计算结果只进响应与事件流, 不落库
type PricingCommandService struct {
	model      *domain.BinomialModel
	marketData domain.MarketDataClient
	publisher  messagequeue.EventPublisher
	logger     *slog.Logger
}

// NewPricingCommandService 创建定价命令服务
func NewPricingCommandService(
	model *domain.BinomialModel,
	marketData domain.MarketDataClient,
	publisher messagequeue.EventPublisher,
	logger *slog.Logger,
) *PricingCommandService {
	return &PricingCommandService{
		model:      model,
		marketData: marketData,
		publisher:  publisher,
		logger:     logger,
	}
}

// PriceOption 美式期权定价
func (c *PricingCommandService) PriceOption(ctx context.Context, cmd PriceOptionCommand) (*ValuationResult, error) {
	optionType, in, spot, err := resolveBinomialInput(ctx, c.marketData, cmd)
	if err != nil {
		return nil, err
	}

	lat, err := domain.NewLattice(in)
	if err != nil {
		c.publishPricingError(ctx, cmd, err)
		return nil, err
	}
	if !lat.Stable() {
		c.logger.WarnContext(ctx, "risk neutral probability outside [0,1]",
			"symbol", cmd.Symbol, "p", lat.P, "steps", in.Steps)
	}

	price, err := c.model.Price(optionType, in)
	if err != nil {
		c.publishPricingError(ctx, cmd, err)
		return nil, err
	}

	greeks, greeksErr := c.model.CalculateGreeks(optionType, in)
	if greeksErr != nil {
		// 临期或波动率过小时扰动重定价不可行, 返回价格但敏感度置零
		c.logger.WarnContext(ctx, "greeks unavailable",
			"symbol", cmd.Symbol, "error", greeksErr)
		greeks = domain.Greeks{}
	}

	now := time.Now()
	result := &ValuationResult{
		Symbol:          cmd.Symbol,
		OptionType:      string(optionType),
		OptionPrice:     decimal.NewFromFloat(price),
		UnderlyingPrice: spot,
		StrikePrice:     decimal.NewFromFloat(cmd.StrikePrice),
		ExpiryDate:      cmd.ExpiryDate,
		TimeToExpiry:    in.T,
		Volatility:      in.Sigma,
		RiskFreeRate:    in.R,
		Steps:           in.Steps,
		Stable:          lat.Stable(),
		Delta:           greeks.Delta,
		Gamma:           greeks.Gamma,
		Theta:           greeks.Theta,
		Vega:            greeks.Vega,
		Rho:             greeks.Rho,
		PricingModel:    domain.ModelBinomialCRR,
		CalculatedAt:    now.Unix(),
	}

	if c.publisher != nil {
		priced := domain.OptionPricedEvent{
			Symbol:          cmd.Symbol,
			OptionType:      optionType,
			StrikePrice:     cmd.StrikePrice,
			ExpiryDate:      cmd.ExpiryDate,
			OptionPrice:     price,
			UnderlyingPrice: in.S,
			Volatility:      in.Sigma,
			RiskFreeRate:    in.R,
			Steps:           in.Steps,
			PricingModel:    domain.ModelBinomialCRR,
			CalculatedAt:    result.CalculatedAt,
			OccurredOn:      now,
		}
		if err := c.publisher.Publish(ctx, domain.OptionPricedEventType, cmd.Symbol, priced); err != nil {
			c.logger.WarnContext(ctx, "failed to publish option priced event",
				"symbol", cmd.Symbol, "error", err)
		}

		if greeksErr == nil {
			calculated := domain.GreeksCalculatedEvent{
				Symbol:          cmd.Symbol,
				OptionType:      optionType,
				StrikePrice:     cmd.StrikePrice,
				ExpiryDate:      cmd.ExpiryDate,
				UnderlyingPrice: in.S,
				Delta:           greeks.Delta,
				Gamma:           greeks.Gamma,
				Theta:           greeks.Theta,
				Vega:            greeks.Vega,
				Rho:             greeks.Rho,
				CalculatedAt:    result.CalculatedAt,
				OccurredOn:      now,
			}
			if err := c.publisher.Publish(ctx, domain.GreeksCalculatedEventType, cmd.Symbol, calculated); err != nil {
				c.logger.WarnContext(ctx, "failed to publish greeks calculated event",
					"symbol", cmd.Symbol, "error", err)
			}
		}
	}

	return result, nil
}

// BatchPriceOptions 批量定价, 各合约相互独立, 失败的合约计入失败数不拖垮整批
func (c *PricingCommandService) BatchPriceOptions(ctx context.Context, cmd BatchPriceOptionsCommand) (*BatchPricingResult, error) {
	if len(cmd.Contracts) == 0 {
		return nil, fmt.Errorf("%w: contracts are required", domain.ErrInvalidParameter)
	}
	batchID := cmd.BatchID
	if batchID == "" {
		batchID = fmt.Sprintf("batch_%d", time.Now().UnixNano())
	}

	startTime := time.Now()
	results := make([]*ValuationResult, len(cmd.Contracts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, contract := range cmd.Contracts {
		g.Go(func() error {
			result, err := c.PriceOption(gctx, contract)
			if err != nil {
				c.logger.WarnContext(gctx, "batch pricing element failed",
					"batch_id", batchID, "symbol", contract.Symbol, "error", err)
				return nil
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	completed := make([]*ValuationResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			completed = append(completed, r)
		}
	}
	successCount := len(completed)
	failureCount := len(cmd.Contracts) - successCount
	avg := time.Since(startTime).Seconds() / float64(len(cmd.Contracts))

	if c.publisher != nil {
		_ = c.publisher.Publish(ctx, domain.BatchPricingCompletedEventType, batchID, domain.BatchPricingCompletedEvent{
			BatchID:        batchID,
			Symbols:        extractSymbols(cmd.Contracts),
			TotalContracts: len(cmd.Contracts),
			SuccessCount:   successCount,
			FailureCount:   failureCount,
			AverageTime:    avg,
			CompletedAt:    time.Now().Unix(),
			OccurredOn:     time.Now(),
		})
	}

	return &BatchPricingResult{
		BatchID:      batchID,
		Results:      completed,
		SuccessCount: successCount,
		FailureCount: failureCount,
		AverageTime:  avg,
	}, nil
}

// publishPricingError 失败路径的事件上报, 尽力而为
func (c *PricingCommandService) publishPricingError(ctx context.Context, cmd PriceOptionCommand, cause error) {
	if c.publisher == nil {
		return
	}
	now := time.Now()
	event := domain.PricingErrorEvent{
		Symbol:      cmd.Symbol,
		OptionType:  domain.OptionType(cmd.OptionType),
		StrikePrice: cmd.StrikePrice,
		ExpiryDate:  cmd.ExpiryDate,
		Error:       cause.Error(),
		ErrorCode:   errorCode(cause),
		OccurredAt:  now.Unix(),
		OccurredOn:  now,
	}
	if err := c.publisher.Publish(ctx, domain.PricingErrorEventType, cmd.Symbol, event); err != nil {
		c.logger.WarnContext(ctx, "failed to publish pricing error event",
			"symbol", cmd.Symbol, "error", err)
	}
}

// 辅助函数：补齐缺省输入并换算为二叉树定价参数
func resolveBinomialInput(ctx context.Context, marketData domain.MarketDataClient, cmd PriceOptionCommand) (domain.OptionType, domain.BinomialInput, decimal.Decimal, error) {
	if cmd.Symbol == "" {
		return "", domain.BinomialInput{}, decimal.Zero, fmt.Errorf("%w: symbol is required", domain.ErrInvalidParameter)
	}
	optionType := domain.OptionType(strings.ToUpper(cmd.OptionType))
	if !optionType.Valid() {
		return "", domain.BinomialInput{}, decimal.Zero, fmt.Errorf("%w: %q", domain.ErrInvalidOptionType, cmd.OptionType)
	}

	timeToExpiry := float64(cmd.ExpiryDate-time.Now().UnixMilli()) / 1000 / 24 / 3600 / 365
	if timeToExpiry <= 0 {
		return "", domain.BinomialInput{}, decimal.Zero, fmt.Errorf("%w: option expired at %d", domain.ErrInvalidParameter, cmd.ExpiryDate)
	}

	spot := decimal.NewFromFloat(cmd.UnderlyingPrice)
	if cmd.UnderlyingPrice <= 0 {
		if marketData == nil {
			return "", domain.BinomialInput{}, decimal.Zero, fmt.Errorf("%w: underlying price is required", domain.ErrInvalidParameter)
		}
		var err error
		spot, err = marketData.GetPrice(ctx, cmd.Symbol)
		if err != nil {
			return "", domain.BinomialInput{}, decimal.Zero, err
		}
	}

	vol := cmd.Volatility
	if vol <= 0 {
		if marketData == nil {
			return "", domain.BinomialInput{}, decimal.Zero, fmt.Errorf("%w: volatility is required", domain.ErrInvalidParameter)
		}
		v, err := marketData.GetVolatility(ctx, cmd.Symbol)
		if err != nil {
			return "", domain.BinomialInput{}, decimal.Zero, err
		}
		vol = v.InexactFloat64()
	}

	steps := cmd.Steps
	if steps <= 0 {
		days := int(time.Until(time.UnixMilli(cmd.ExpiryDate)).Hours() / 24)
		steps = days
		if steps < 100 {
			steps = 100
		}
	}

	in := domain.BinomialInput{
		S:     spot.InexactFloat64(),
		K:     cmd.StrikePrice,
		T:     timeToExpiry,
		R:     cmd.RiskFreeRate,
		Sigma: vol,
		Steps: steps,
	}
	return optionType, in, spot, nil
}

// errorCode 把领域错误折叠成事件里的稳定错误码
func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidParameter):
		return "INVALID_PARAMETER"
	case errors.Is(err, domain.ErrDegenerateLattice):
		return "DEGENERATE_LATTICE"
	case errors.Is(err, domain.ErrUnstableProbability):
		return "UNSTABLE_PROBABILITY"
	case errors.Is(err, domain.ErrInvalidOptionType):
		return "INVALID_OPTION_TYPE"
	case errors.Is(err, domain.ErrQuoteNotFound):
		return "QUOTE_NOT_FOUND"
	default:
		return "INTERNAL"
	}
}

// 辅助函数：提取合约代码并去重
func extractSymbols(contracts []PriceOptionCommand) []string {
	symbols := make([]string, 0, len(contracts))
	seen := make(map[string]bool)
	for _, contract := range contracts {
		if contract.Symbol != "" && !seen[contract.Symbol] {
			symbols = append(symbols, contract.Symbol)
			seen[contract.Symbol] = true
		}
	}
	return symbols
}
