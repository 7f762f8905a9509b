package handler

import (
	"energy-dex/internal/adapter/http/dto"
	"energy-dex/internal/core/domain"
	"energy-dex/internal/core/ports"
	"energy-dex/pkg/apperror"
	"energy-dex/pkg/response"

	"github.com/gin-gonic/gin"
)

// TradingHandler handles order placement, execution and cancellation.
type TradingHandler struct {
	orders ports.OrderEngine
}

// NewTradingHandler creates a new TradingHandler.
func NewTradingHandler(orders ports.OrderEngine) *TradingHandler {
	return &TradingHandler{orders: orders}
}

// CreateOrder handles POST /api/v1/orders.
func (h *TradingHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidRequest(err.Error()))
		return
	}

	ack, err := h.orders.CreateOrder(c.Request.Context(), ports.OrderRequest{
		Side:      domain.Side(req.Side),
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, ack)
}

// ExecuteTrade handles POST /api/v1/trades.
func (h *TradingHandler) ExecuteTrade(c *gin.Context) {
	var req dto.ExecuteTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidRequest(err.Error()))
		return
	}

	ack, err := h.orders.ExecuteTrade(c.Request.Context(), req.Order())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, ack)
}

// CancelOrder handles DELETE /api/v1/orders/:id.
func (h *TradingHandler) CancelOrder(c *gin.Context) {
	ack, err := h.orders.CancelOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, ack)
}
