package handler

import (
	"net/http"

	"energy-dex/internal/core/domain"
	"energy-dex/internal/core/ports"
	"energy-dex/pkg/apperror"
	"energy-dex/pkg/response"

	"github.com/gin-gonic/gin"
)

// StateHandler serves the synchronized ledger view.
type StateHandler struct {
	sessions ports.SessionManager
	sync     ports.StateSync
	gateway  ports.LedgerConn
}

// NewStateHandler creates a new StateHandler.
func NewStateHandler(sessions ports.SessionManager, stateSync ports.StateSync, gateway ports.LedgerConn) *StateHandler {
	return &StateHandler{sessions: sessions, sync: stateSync, gateway: gateway}
}

// GetSnapshot handles GET /api/v1/snapshot. It serves the local view
// without touching the ledger.
func (h *StateHandler) GetSnapshot(c *gin.Context) {
	snap := h.sync.Current()
	if snap == nil {
		response.Error(c, apperror.ErrNoActiveSession())
		return
	}
	response.OK(c, snap)
}

// Refresh handles POST /api/v1/refresh: a full re-sync for the active
// session.
func (h *StateHandler) Refresh(c *gin.Context) {
	identity := h.sessions.Current()
	if identity == nil {
		response.Error(c, apperror.ErrNoActiveSession())
		return
	}

	snap, err := h.sync.Refresh(c.Request.Context(), identity.Address)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, snap)
}

// Marketplace handles GET /api/v1/marketplace: the slow registry-wide
// listing scan.
func (h *StateHandler) Marketplace(c *gin.Context) {
	listings, err := h.sync.RefreshMarketplace(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"listings": listings})
}

// Health handles GET /healthz. Reports the ledger connection state rather
// than probing it, so the endpoint stays cheap.
func (h *StateHandler) Health(c *gin.Context) {
	state := h.gateway.State()
	status, code := "healthy", http.StatusOK
	if state != domain.Connected {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":     status,
		"connection": state.String(),
	})
}
