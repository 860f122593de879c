package handler

import (
	"context"

	"farming-engine/internal/adapter/http/dto"
	"farming-engine/internal/core/ports"
	"farming-engine/pkg/apperror"
	"farming-engine/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// MaintenanceHandler exposes operator actions: an out-of-schedule tick and
// basis reconciliation.
type MaintenanceHandler struct {
	trigger    ports.TickTrigger
	reconciler ports.Reconciler
	log        zerolog.Logger
}

// NewMaintenanceHandler creates a new MaintenanceHandler.
func NewMaintenanceHandler(trigger ports.TickTrigger, reconciler ports.Reconciler, log zerolog.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{trigger: trigger, reconciler: reconciler, log: log}
}

// TriggerTick handles POST /internal/v1/maintenance/ticks. By default the
// batch runs synchronously and its report is returned; with ?async=true the
// batch is started in the background and 202 is returned at once.
func (h *MaintenanceHandler) TriggerTick(c *gin.Context) {
	if c.Query("async") == "true" {
		ctx := context.WithoutCancel(c.Request.Context())
		go func() {
			report, err := h.trigger.Trigger(ctx)
			if err != nil {
				h.log.Error().Err(err).Msg("Triggered tick failed")
				return
			}
			h.log.Info().Int("processed", report.Processed).Msg("Triggered tick finished")
		}()
		response.Accepted(c, gin.H{"status": "started"})
		return
	}

	report, err := h.trigger.Trigger(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// Reconcile handles POST /internal/v1/maintenance/reconcile.
func (h *MaintenanceHandler) Reconcile(c *gin.Context) {
	var req dto.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.reconciler.RecomputeBasisFromLedger(c.Request.Context(), req.UserID, req.Currency)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
