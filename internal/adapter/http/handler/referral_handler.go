package handler

import (
	"farming-engine/internal/adapter/http/dto"
	"farming-engine/internal/core/ports"
	"farming-engine/pkg/apperror"
	"farming-engine/pkg/response"

	"github.com/gin-gonic/gin"
)

// ReferralHandler records referral edges and exposes ancestor chains.
type ReferralHandler struct {
	registry ports.ReferralRegistry
	graph    ports.ReferralGraph
}

// NewReferralHandler creates a new ReferralHandler.
func NewReferralHandler(registry ports.ReferralRegistry, graph ports.ReferralGraph) *ReferralHandler {
	return &ReferralHandler{registry: registry, graph: graph}
}

// Link handles POST /internal/v1/referrals.
func (h *ReferralHandler) Link(c *gin.Context) {
	var req dto.ReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	if err := h.registry.Link(c.Request.Context(), req.UserID, req.ReferrerID); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, req)
}

// Chain handles GET /internal/v1/users/:id/referral-chain. Index 0 of the
// chain is the direct referrer.
func (h *ReferralHandler) Chain(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	chain, err := h.graph.ResolveChain(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if chain == nil {
		chain = []int64{}
	}
	response.OK(c, gin.H{"user_id": userID, "chain": chain, "depth": len(chain)})
}
