package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/optionpricing/internal/marketdata/application"
	"github.com/wyfcoding/optionpricing/internal/marketdata/domain"
)

type fakeQuoteRepo struct {
	quotes map[string][]*domain.Quote
}

func (r *fakeQuoteRepo) Save(ctx context.Context, quote *domain.Quote) error {
	r.quotes[quote.Symbol] = append(r.quotes[quote.Symbol], quote)
	return nil
}

func (r *fakeQuoteRepo) GetLatest(ctx context.Context, symbol string) (*domain.Quote, error) {
	list := r.quotes[symbol]
	if len(list) == 0 {
		return nil, nil
	}
	return list[len(list)-1], nil
}

func (r *fakeQuoteRepo) GetRecent(ctx context.Context, symbol string, limit int) ([]*domain.Quote, error) {
	list := r.quotes[symbol]
	out := make([]*domain.Quote, 0, limit)
	for i := len(list) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, list[i])
	}
	return out, nil
}

func setupRouter(repo domain.QuoteRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := application.NewMarketDataService(repo, logger)

	r := gin.New()
	NewMarketDataHandler(service).RegisterRoutes(r.Group("/api"))
	return r
}

func seedQuote(repo *fakeQuoteRepo, symbol string, last float64, ts int64) {
	price := decimal.NewFromFloat(last)
	q := domain.NewQuote(symbol, price.Sub(decimal.NewFromFloat(0.5)), price.Add(decimal.NewFromFloat(0.5)),
		decimal.NewFromInt(10), decimal.NewFromInt(10), price, decimal.NewFromInt(1), ts, "test")
	_ = repo.Save(context.Background(), q)
}

func TestGetLatestQuote(t *testing.T) {
	repo := &fakeQuoteRepo{quotes: make(map[string][]*domain.Quote)}
	router := setupRouter(repo)
	seedQuote(repo, "AAPL", 190, 1000)

	// 正常查询
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/marketdata/quote?symbol=AAPL", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var dto application.QuoteDTO
	if err := json.Unmarshal(w.Body.Bytes(), &dto); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if dto.Symbol != "AAPL" || dto.LastPrice != "190" || dto.Timestamp != 1000 {
		t.Fatalf("unexpected dto: %+v", dto)
	}

	// 缺少 symbol 返回 400
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/marketdata/quote", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	// 未知标的返回 404
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/marketdata/quote?symbol=MISSING", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestGetRecentQuotes(t *testing.T) {
	repo := &fakeQuoteRepo{quotes: make(map[string][]*domain.Quote)}
	router := setupRouter(repo)
	for i := 0; i < 5; i++ {
		seedQuote(repo, "AAPL", 100+float64(i), int64(1000+i))
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/marketdata/quotes?symbol=AAPL&limit=3", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Symbol string                  `json:"symbol"`
		Quotes []*application.QuoteDTO `json:"quotes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Quotes) != 3 {
		t.Fatalf("expected 3 quotes, got %d", len(resp.Quotes))
	}
	if resp.Quotes[0].Timestamp != 1004 {
		t.Fatalf("expected newest first, got %+v", resp.Quotes[0])
	}
}

func TestGetVolatility(t *testing.T) {
	repo := &fakeQuoteRepo{quotes: make(map[string][]*domain.Quote)}
	router := setupRouter(repo)
	closes := []float64{100, 102, 99, 103, 101, 104}
	for i, price := range closes {
		seedQuote(repo, "AAPL", price, int64(1000+i))
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/marketdata/volatility?symbol=AAPL", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Symbol     string  `json:"symbol"`
		Volatility float64 `json:"volatility"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Volatility <= 0 {
		t.Fatalf("volatility = %v, want > 0", resp.Volatility)
	}

	// 无历史数据时退回默认波动率
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/marketdata/volatility?symbol=MISSING", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Volatility != domain.DefaultVolatility {
		t.Fatalf("fallback volatility = %v, want %v", resp.Volatility, domain.DefaultVolatility)
	}
}
