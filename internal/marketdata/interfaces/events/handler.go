package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/optionpricing/internal/marketdata/application"
	"github.com/wyfcoding/pkg/messagequeue/kafka"
)

// MarketDataEventHandler 消费上游行情事件并写入仓储。
type MarketDataEventHandler struct {
	service *application.MarketDataService
}

func NewMarketDataEventHandler(service *application.MarketDataService) *MarketDataEventHandler {
	return &MarketDataEventHandler{service: service}
}

// HandleMarketPrice 处理 market.price 事件
func (h *MarketDataEventHandler) HandleMarketPrice(ctx context.Context, msg kafkago.Message) error {
	var event struct {
		Symbol    string `json:"symbol"`
		Price     string `json:"price"`
		Timestamp int64  `json:"timestamp"`
	}
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal market price event: %w", err)
	}
	if event.Symbol == "" {
		return fmt.Errorf("market price event missing symbol")
	}

	price, err := decimal.NewFromString(event.Price)
	if err != nil {
		return fmt.Errorf("invalid price %q: %w", event.Price, err)
	}
	slog.Debug("handling market price event", "symbol", event.Symbol, "price", price.String())

	return h.service.SaveQuote(ctx, application.IngestQuoteCommand{
		Symbol:    event.Symbol,
		LastPrice: price,
		Timestamp: event.Timestamp,
		Source:    "simulation",
	})
}

func (h *MarketDataEventHandler) Subscribe(ctx context.Context, consumer *kafka.Consumer) {
	consumer.Start(ctx, 1, h.HandleMarketPrice)
}
