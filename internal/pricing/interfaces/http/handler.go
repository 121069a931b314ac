package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/wyfcoding/pkg/response"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/optionpricing/internal/pricing/application"
	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
	"github.com/wyfcoding/pkg/logging"
)

// HTTP 处理器
// 负责处理与定价相关的 HTTP 请求
type PricingHandler struct {
	cmd   *application.PricingCommandService
	query *application.PricingQueryService
}

// 创建 HTTP 处理器实例
func NewPricingHandler(cmd *application.PricingCommandService, query *application.PricingQueryService) *PricingHandler {
	return &PricingHandler{cmd: cmd, query: query}
}

// 注册路由
// 将处理器方法绑定到 Gin 路由引擎
func (h *PricingHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/v1/pricing")
	{
		api.POST("/option/price", h.GetOptionPrice)
		api.POST("/option/price/batch", h.BatchPriceOptions)
		api.POST("/option/greeks", h.GetGreeks)
	}
}

// OptionContractRequest 期权合约请求
type OptionContractRequest struct {
	Symbol      string    `json:"symbol" binding:"required"`
	Type        string    `json:"type" binding:"required"`
	StrikePrice float64   `json:"strike_price" binding:"required"`
	ExpiryDate  time.Time `json:"expiry_date" binding:"required"`
}

// PricingRequest 定价请求
// 标的价、波动率和步数可缺省, 缺省时由服务端补全
type PricingRequest struct {
	Contract        OptionContractRequest `json:"contract" binding:"required"`
	UnderlyingPrice float64               `json:"underlying_price"`
	Volatility      float64               `json:"volatility"`
	RiskFreeRate    float64               `json:"risk_free_rate"`
	Steps           int                   `json:"steps"`
}

// BatchPricingRequest 批量定价请求
type BatchPricingRequest struct {
	Contracts []PricingRequest `json:"contracts" binding:"required"`
}

// GetOptionPrice 获取期权价格
func (h *PricingHandler) GetOptionPrice(c *gin.Context) {
	var req PricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	result, err := h.cmd.PriceOption(c.Request.Context(), toCommand(req))
	if err != nil {
		status := statusFromError(err)
		if status >= http.StatusInternalServerError {
			logging.Error(c.Request.Context(), "Failed to calculate option price", "error", err)
		}
		response.ErrorWithStatus(c, status, err.Error(), "")
		return
	}

	response.Success(c, result)
}

// BatchPriceOptions 批量定价
func (h *PricingHandler) BatchPriceOptions(c *gin.Context) {
	var req BatchPricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	cmd := application.BatchPriceOptionsCommand{
		Contracts: make([]application.PriceOptionCommand, len(req.Contracts)),
	}
	for i, contract := range req.Contracts {
		cmd.Contracts[i] = toCommand(contract)
	}

	result, err := h.cmd.BatchPriceOptions(c.Request.Context(), cmd)
	if err != nil {
		status := statusFromError(err)
		if status >= http.StatusInternalServerError {
			logging.Error(c.Request.Context(), "Failed to batch price options", "error", err)
		}
		response.ErrorWithStatus(c, status, err.Error(), "")
		return
	}

	response.Success(c, result)
}

// GetGreeks 获取希腊字母
func (h *PricingHandler) GetGreeks(c *gin.Context) {
	var req PricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	greeks, err := h.query.GetGreeks(c.Request.Context(), toCommand(req))
	if err != nil {
		status := statusFromError(err)
		if status >= http.StatusInternalServerError {
			logging.Error(c.Request.Context(), "Failed to calculate Greeks", "error", err)
		}
		response.ErrorWithStatus(c, status, err.Error(), "")
		return
	}

	response.Success(c, gin.H{
		"greeks":           greeks,
		"calculation_time": time.Now(),
	})
}

// 辅助函数：HTTP 请求转应用层命令
func toCommand(req PricingRequest) application.PriceOptionCommand {
	return application.PriceOptionCommand{
		Symbol:          req.Contract.Symbol,
		OptionType:      req.Contract.Type,
		StrikePrice:     req.Contract.StrikePrice,
		ExpiryDate:      req.Contract.ExpiryDate.UnixMilli(),
		UnderlyingPrice: req.UnderlyingPrice,
		Volatility:      req.Volatility,
		RiskFreeRate:    req.RiskFreeRate,
		Steps:           req.Steps,
	}
}

// 辅助函数：领域错误映射 HTTP 状态码
func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidParameter),
		errors.Is(err, domain.ErrDegenerateLattice),
		errors.Is(err, domain.ErrInvalidOptionType):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrQuoteNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
