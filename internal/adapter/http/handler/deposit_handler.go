package handler

import (
	"farming-engine/internal/adapter/http/dto"
	"farming-engine/internal/core/ports"
	"farming-engine/pkg/apperror"
	"farming-engine/pkg/response"

	"github.com/gin-gonic/gin"
)

// DepositHandler receives confirmed deposits from the verification pipeline.
type DepositHandler struct {
	gate ports.DepositGate
}

// NewDepositHandler creates a new DepositHandler.
func NewDepositHandler(gate ports.DepositGate) *DepositHandler {
	return &DepositHandler{gate: gate}
}

// Ingest handles POST /internal/v1/deposits. A first ingestion answers 201,
// a replay of a known external reference answers 200 with the original entry.
func (h *DepositHandler) Ingest(c *gin.Context) {
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.gate.Ingest(c.Request.Context(), ports.DepositRequest{
		UserID:      req.UserID,
		Currency:    req.Currency,
		Amount:      req.Amount,
		ExternalRef: req.ExternalRef,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.Replayed {
		response.OK(c, dto.ToDepositResponse(result))
		return
	}
	response.Created(c, dto.ToDepositResponse(result))
}
