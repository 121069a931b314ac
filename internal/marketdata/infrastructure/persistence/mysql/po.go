package mysql

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/optionpricing/internal/marketdata/domain"
)

// QuotePO
type QuotePO struct {
	ID        uint            `gorm:"primarykey"`
	Symbol    string          `gorm:"column:symbol;type:varchar(20);index:idx_symbol_time;not null"`
	BidPrice  decimal.Decimal `gorm:"column:bid_price;type:decimal(32,18);not null"`
	AskPrice  decimal.Decimal `gorm:"column:ask_price;type:decimal(32,18);not null"`
	BidSize   decimal.Decimal `gorm:"column:bid_size;type:decimal(32,18);not null"`
	AskSize   decimal.Decimal `gorm:"column:ask_size;type:decimal(32,18);not null"`
	LastPrice decimal.Decimal `gorm:"column:last_price;type:decimal(32,18);not null"`
	LastSize  decimal.Decimal `gorm:"column:last_size;type:decimal(32,18);not null"`
	Timestamp int64           `gorm:"column:timestamp;type:bigint;index:idx_symbol_time;not null"`
	Source    string          `gorm:"column:source;type:varchar(50)"`
	CreatedAt time.Time
}

func (QuotePO) TableName() string { return "marketdata_quotes" }

func (po *QuotePO) ToDomain() *domain.Quote {
	return &domain.Quote{
		Symbol:    po.Symbol,
		BidPrice:  po.BidPrice,
		AskPrice:  po.AskPrice,
		BidSize:   po.BidSize,
		AskSize:   po.AskSize,
		LastPrice: po.LastPrice,
		LastSize:  po.LastSize,
		Timestamp: po.Timestamp,
		Source:    po.Source,
	}
}

func (po *QuotePO) FromDomain(q *domain.Quote) {
	po.Symbol = q.Symbol
	po.BidPrice = q.BidPrice
	po.AskPrice = q.AskPrice
	po.BidSize = q.BidSize
	po.AskSize = q.AskSize
	po.LastPrice = q.LastPrice
	po.LastSize = q.LastSize
	po.Timestamp = q.Timestamp
	po.Source = q.Source
}
