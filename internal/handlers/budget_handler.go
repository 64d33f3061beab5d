// internal/handlers/budget_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"parkgov-crm/models"
)

type budgetItemInput struct {
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type" binding:"required"`
}

func (in *budgetItemInput) toModel() models.BudgetItem {
	return models.BudgetItem{
		Category:    in.Category,
		Description: in.Description,
		Amount:      in.Amount,
		Type:        models.BudgetItemType(in.Type),
	}
}

type budgetInput struct {
	Title      string            `json:"title" binding:"required"`
	FiscalYear string            `json:"fiscalYear" binding:"required"`
	ParkName   string            `json:"parkName" binding:"required"`
	Items      []budgetItemInput `json:"items" binding:"required"`
}

func (in *budgetInput) toModel() *models.Budget {
	b := &models.Budget{
		Title:      in.Title,
		FiscalYear: in.FiscalYear,
		ParkName:   in.ParkName,
	}
	for _, item := range in.Items {
		b.Items = append(b.Items, item.toModel())
	}
	return b
}

// CreateBudget handles POST /budgets (finance). The total is derived from
// the items, never taken from the payload.
func (a *API) CreateBudget(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var in budgetInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b := in.toModel()
	if err := a.Budgets.Create(c.Request.Context(), actor, b); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": b.ID, "totalAmount": b.TotalAmount})
}

// ListBudgets handles GET /budgets, optionally filtered by ?park=.
func (a *API) ListBudgets(c *gin.Context) {
	budgets, err := a.Budgets.List(c.Request.Context(), c.Query("park"))
	if err != nil {
		respondError(c, err)
		return
	}
	if budgets == nil {
		budgets = make([]*models.Budget, 0)
	}
	c.JSON(http.StatusOK, budgets)
}

// GetBudget handles GET /budgets/:id. Terminal budgets stay viewable.
func (a *API) GetBudget(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := a.Budgets.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// UpdateBudget handles PUT /budgets/:id, a draft-only full edit.
func (a *API) UpdateBudget(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in budgetInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := a.Budgets.UpdateDraft(c.Request.Context(), actor, id, in.toModel())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// AddBudgetItem handles POST /budgets/:id/items.
func (a *API) AddBudgetItem(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in budgetItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := a.Budgets.AddItem(c.Request.Context(), actor, id, in.toModel())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// UpdateBudgetItem handles PUT /budgets/:id/items/:itemId.
func (a *API) UpdateBudgetItem(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	itemID, ok := pathParamID(c, "itemId")
	if !ok {
		return
	}
	var in budgetItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := a.Budgets.UpdateItem(c.Request.Context(), actor, id, itemID, in.toModel())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// RemoveBudgetItem handles DELETE /budgets/:id/items/:itemId. The last
// remaining item cannot be removed.
func (a *API) RemoveBudgetItem(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	itemID, ok := pathParamID(c, "itemId")
	if !ok {
		return
	}

	b, err := a.Budgets.RemoveItem(c.Request.Context(), actor, id, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// SubmitBudget handles POST /budgets/:id/submit, the one-way gate into
// government review.
func (a *API) SubmitBudget(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := a.Budgets.Submit(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "budget submitted successfully"})
}

// GetBudgetReview handles GET /budgets/:id/review: the budget plus the
// park's current income and expense snapshots for the reviewer.
func (a *API) GetBudgetReview(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	surface, err := a.Budgets.Surface(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, surface)
}

// DecideBudget handles PUT /budgets/:id/status with {status, reason}.
func (a *API) DecideBudget(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in decisionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.Budgets.Review(c.Request.Context(), actor, id, models.BudgetStatus(in.Status), in.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "budget " + in.Status + " successfully"})
}
