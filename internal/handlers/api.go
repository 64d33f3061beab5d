// internal/handlers/api.go
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"parkgov-crm/internal/authz"
	"parkgov-crm/internal/finance"
	"parkgov-crm/internal/middleware"
	"parkgov-crm/internal/workflow"
	"parkgov-crm/models"
)

// RevenueRecorder persists the two revenue capture records.
type RevenueRecorder interface {
	CreateDonation(ctx context.Context, d *models.Donation) error
	CreateTourBooking(ctx context.Context, t *models.TourBooking) error
}

// API is the HTTP facade over the governance core. Handlers translate
// between JSON and the services; every rule lives in the services.
type API struct {
	Income   *finance.IncomeService
	Expense  *finance.ExpenseService
	Requests *workflow.RequestService
	Budgets  *workflow.BudgetService
	Revenue  RevenueRecorder
}

// respondError maps the typed outcome taxonomy onto HTTP statuses.
// ThresholdError gets its own status and payload: the UI must switch to
// reject-only and prefill the audit reason.
func respondError(c *gin.Context, err error) {
	var thresholdErr *workflow.ThresholdError
	var validationErr *workflow.ValidationError

	switch {
	case errors.As(err, &thresholdErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":           thresholdErr.Error(),
			"requested":       thresholdErr.Requested,
			"threshold":       thresholdErr.Threshold,
			"incomeTotal":     thresholdErr.IncomeTotal,
			"suggestedReason": thresholdErr.AuditReason(),
		})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Msg})
	case errors.Is(err, workflow.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "role not permitted for this action"})
	case errors.Is(err, workflow.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, workflow.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": "operation not legal from current status"})
	case errors.Is(err, finance.ErrDataUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot data temporarily unavailable, retry later"})
	default:
		slog.Error("unhandled operation error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// actorOrAbort pulls the authenticated actor out of the context.
func actorOrAbort(c *gin.Context) (authz.Actor, bool) {
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no authenticated actor"})
	}
	return actor, ok
}

func pathID(c *gin.Context) (uint, bool) {
	return pathParamID(c, "id")
}

func pathParamID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
