package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// OptionType 期权类型
type OptionType string

const (
	OptionTypeCall OptionType = "CALL" // 看涨期权
	OptionTypePut  OptionType = "PUT"  // 看跌期权
)

// Valid 校验期权类型是否受支持
func (t OptionType) Valid() bool {
	return t == OptionTypeCall || t == OptionTypePut
}

// BinomialInput 二叉树定价输入
// S 标的现价, K 行权价, T 到期时间(年), R 无风险利率, Sigma 年化波动率, Steps 树的层数
type BinomialInput struct {
	S     float64
	K     float64
	T     float64
	R     float64
	Sigma float64
	Steps int
}

// Greeks 希腊字母
// Vega/Rho 以波动率/利率每变动 1 个百分点计, Theta 以日历日计
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`
	Theta float64 `json:"theta"`
	Rho   float64 `json:"rho"`
}

// MarketDataClient 市场数据客户端接口, 为缺省的定价输入补齐现价与波动率
type MarketDataClient interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	GetVolatility(ctx context.Context, symbol string) (decimal.Decimal, error)
}
