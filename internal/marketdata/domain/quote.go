// Package domain 行情服务的领域模型与仓储接口
package domain

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Quote 行情数据实体
type Quote struct {
	gorm.Model
	// Symbol 标的代码
	Symbol string `gorm:"column:symbol;type:varchar(20);index;not null"`
	// BidPrice 买价
	BidPrice decimal.Decimal `gorm:"column:bid_price;type:decimal(32,18);not null"`
	// AskPrice 卖价
	AskPrice decimal.Decimal `gorm:"column:ask_price;type:decimal(32,18);not null"`
	// BidSize 买量
	BidSize decimal.Decimal `gorm:"column:bid_size;type:decimal(32,18);not null"`
	// AskSize 卖量
	AskSize decimal.Decimal `gorm:"column:ask_size;type:decimal(32,18);not null"`
	// LastPrice 最后成交价
	LastPrice decimal.Decimal `gorm:"column:last_price;type:decimal(32,18);not null"`
	// LastSize 最后成交量
	LastSize decimal.Decimal `gorm:"column:last_size;type:decimal(32,18);not null"`
	// Timestamp 行情时间戳(毫秒)
	Timestamp int64 `gorm:"column:timestamp;type:bigint;index;not null"`
	// Source 数据来源
	Source string `gorm:"column:source;type:varchar(50)"`
}

// NewQuote 创建行情实体
func NewQuote(symbol string, bidPrice, askPrice, bidSize, askSize, lastPrice, lastSize decimal.Decimal, timestamp int64, source string) *Quote {
	return &Quote{
		Symbol:    symbol,
		BidPrice:  bidPrice,
		AskPrice:  askPrice,
		BidSize:   bidSize,
		AskSize:   askSize,
		LastPrice: lastPrice,
		LastSize:  lastSize,
		Timestamp: timestamp,
		Source:    source,
	}
}

// GetSpread 获取买卖价差
func (q *Quote) GetSpread() decimal.Decimal {
	return q.AskPrice.Sub(q.BidPrice)
}

// GetMidPrice 获取中间价
func (q *Quote) GetMidPrice() decimal.Decimal {
	return q.BidPrice.Add(q.AskPrice).Div(decimal.NewFromInt(2))
}

// ReferencePrice 可用于定价的现价: 优先最后成交价, 无成交时退回中间价
func (q *Quote) ReferencePrice() decimal.Decimal {
	if q.LastPrice.IsPositive() {
		return q.LastPrice
	}
	return q.GetMidPrice()
}
