package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/logger"
)

// ResetPurger deletes used and expired password reset tokens.
type ResetPurger interface {
	PurgeExpiredResets(ctx context.Context) (int64, error)
}

// OpsHandler serves operator endpoints guarded by the ops API key.
type OpsHandler struct {
	purger ResetPurger
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(purger ResetPurger) *OpsHandler {
	return &OpsHandler{purger: purger}
}

// PurgeResponse reports how many reset tokens were deleted.
type PurgeResponse struct {
	Purged int64 `json:"purged"`
}

// PurgePasswordResets runs the reset token purge immediately
// @Summary     Purge password reset tokens
// @Description Delete used and expired password reset tokens without waiting for the schedule
// @Tags        ops
// @Produce     json
// @Param       X-API-Key header string true "Operator API key"
// @Success     200 {object} PurgeResponse
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     503 {object} ErrorResponse "Not configured or store unavailable"
// @Router      /ops/purge-password-resets [post]
func (h *OpsHandler) PurgePasswordResets(c *gin.Context) {
	n, err := h.purger.PurgeExpiredResets(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	logger.Get().Infow("password resets purged on request", "purged", n, "client_ip", c.ClientIP())
	c.JSON(http.StatusOK, PurgeResponse{Purged: n})
}
