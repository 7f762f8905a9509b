package handler

import (
	"energy-dex/internal/adapter/http/dto"
	"energy-dex/internal/core/domain"
	"energy-dex/internal/core/ports"
	"energy-dex/pkg/apperror"
	"energy-dex/pkg/response"

	"github.com/gin-gonic/gin"
)

// AssetHandler handles tokenization endpoints.
type AssetHandler struct {
	tokenizer ports.Tokenizer
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(tokenizer ports.Tokenizer) *AssetHandler {
	return &AssetHandler{tokenizer: tokenizer}
}

// Mint handles POST /api/v1/assets/mint. A single unit returns its terminal
// workflow outcome; more units return per-unit outcomes.
func (h *AssetHandler) Mint(c *gin.Context) {
	var req dto.MintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidRequest(err.Error()))
		return
	}

	mintReq := ports.MintRequest{
		SourceKind: domain.SourceKind(req.SourceKind),
		Location:   req.Location,
		Recipient:  req.Recipient,
		PriceDrops: req.PriceDrops,
		Units:      req.Units,
	}

	if req.Units > 1 {
		batch, err := h.tokenizer.MintBatch(c.Request.Context(), mintReq)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Accepted(c, batch)
		return
	}

	outcome, err := h.tokenizer.MintAndTransfer(c.Request.Context(), mintReq)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, outcome)
}
