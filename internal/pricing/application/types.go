package application

import (
	"github.com/shopspring/decimal"
)

// PriceOptionCommand 期权定价命令
// UnderlyingPrice/Volatility 不为正时从行情服务补齐, Steps 不为正时按剩余天数推导
type PriceOptionCommand struct {
	Symbol          string
	OptionType      string
	StrikePrice     float64
	ExpiryDate      int64 // Unix 毫秒
	UnderlyingPrice float64
	Volatility      float64
	RiskFreeRate    float64
	Steps           int
}

// ValuationResult 定价结果 DTO, 价格字段在边界上用 decimal 表示
type ValuationResult struct {
	Symbol          string          `json:"symbol"`
	OptionType      string          `json:"option_type"`
	OptionPrice     decimal.Decimal `json:"option_price"`
	UnderlyingPrice decimal.Decimal `json:"underlying_price"`
	StrikePrice     decimal.Decimal `json:"strike_price"`
	ExpiryDate      int64           `json:"expiry_date"`
	TimeToExpiry    float64         `json:"time_to_expiry"`
	Volatility      float64         `json:"volatility"`
	RiskFreeRate    float64         `json:"risk_free_rate"`
	Steps           int             `json:"steps"`
	Stable          bool            `json:"stable"`
	Delta           float64         `json:"delta"`
	Gamma           float64         `json:"gamma"`
	Theta           float64         `json:"theta"`
	Vega            float64         `json:"vega"`
	Rho             float64         `json:"rho"`
	PricingModel    string          `json:"pricing_model"`
	CalculatedAt    int64           `json:"calculated_at"`
}

// BatchPriceOptionsCommand 批量定价命令
type BatchPriceOptionsCommand struct {
	BatchID   string
	Contracts []PriceOptionCommand
}

// BatchPricingResult 批量定价结果
type BatchPricingResult struct {
	BatchID      string             `json:"batch_id"`
	Results      []*ValuationResult `json:"results"`
	SuccessCount int                `json:"success_count"`
	FailureCount int                `json:"failure_count"`
	AverageTime  float64            `json:"average_time"`
}
