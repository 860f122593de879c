package handler

import (
	"farming-engine/internal/adapter/http/dto"
	"farming-engine/internal/core/domain"
	"farming-engine/internal/core/ports"
	"farming-engine/pkg/apperror"
	"farming-engine/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PositionHandler serves the read side for reporting consumers, plus opt-out.
type PositionHandler struct {
	query ports.PositionQuery
}

// NewPositionHandler creates a new PositionHandler.
func NewPositionHandler(query ports.PositionQuery) *PositionHandler {
	return &PositionHandler{query: query}
}

// ListPositions handles GET /internal/v1/users/:id/positions.
func (h *PositionHandler) ListPositions(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	positions, err := h.query.ListPositions(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.PositionResponse, 0, len(positions))
	for _, p := range positions {
		out = append(out, dto.ToPositionResponse(p))
	}
	response.OK(c, out)
}

// GetBalance handles GET /internal/v1/users/:id/balances/:currency.
func (h *PositionHandler) GetBalance(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	balance, err := h.query.Balance(c.Request.Context(), userID, c.Param("currency"))
	if err != nil {
		response.Error(c, err)
		return
	}

	cur, _ := domain.ParseCurrency(c.Param("currency"))
	response.OK(c, dto.BalanceResponse{
		UserID:   userID,
		Currency: cur.String(),
		Balance:  balance.StringFixed(cur.Precision()),
	})
}

// ListTransactions handles GET /internal/v1/users/:id/transactions?limit=N.
func (h *PositionHandler) ListTransactions(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	limit, err := limitQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	txs, err := h.query.History(c.Request.Context(), userID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.TransactionResponse, 0, len(txs))
	for i := range txs {
		out = append(out, dto.ToTransactionResponse(&txs[i]))
	}
	response.OK(c, dto.TransactionListResponse{Transactions: out, Count: len(out)})
}

// GetTransaction handles GET /internal/v1/transactions/:id.
func (h *PositionHandler) GetTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("transaction id must be a UUID"))
		return
	}

	t, err := h.query.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToTransactionResponse(t))
}

// OptOut handles DELETE /internal/v1/users/:id/positions/:currency.
func (h *PositionHandler) OptOut(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.query.OptOut(c.Request.Context(), userID, c.Param("currency")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"user_id": userID, "currency": c.Param("currency"), "active": false})
}
