package domain

import "math"

// tradingDaysPerYear 年化折算的交易日数
const tradingDaysPerYear = 252.0

// DefaultVolatility 样本不足时的保守缺省波动率
const DefaultVolatility = 0.30

// AnnualizedVolatility 由收盘价序列计算年化历史波动率。
// 对数收益率的样本标准差乘以 sqrt(252)。
// 至少需要三个价格才能得到非退化的样本方差, 不足时返回缺省值。
func AnnualizedVolatility(closes []float64) float64 {
	if len(closes) < 3 {
		return DefaultVolatility
	}

	rets := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		rets = append(rets, math.Log(closes[i]/closes[i-1]))
	}

	mean := 0.0
	for _, v := range rets {
		mean += v
	}
	mean /= float64(len(rets))

	sd := 0.0
	for _, v := range rets {
		sd += (v - mean) * (v - mean)
	}
	sd = math.Sqrt(sd / float64(len(rets)-1))

	return sd * math.Sqrt(tradingDaysPerYear)
}

// RealizedVolatility 由时间倒序的行情记录计算年化历史波动率。
// 无成交价的记录会被跳过, 序列先翻转成时间正序再取对数收益。
func RealizedVolatility(quotes []*Quote) float64 {
	closes := make([]float64, 0, len(quotes))
	for i := len(quotes) - 1; i >= 0; i-- {
		price := quotes[i].ReferencePrice()
		if price.IsPositive() {
			closes = append(closes, price.InexactFloat64())
		}
	}
	return AnnualizedVolatility(closes)
}
