// internal/handlers/snapshot_handler.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// parseDateParam reads an optional YYYY-MM-DD query parameter.
func parseDateParam(c *gin.Context, name string) (*time.Time, bool) {
	v := c.Query(name)
	if v == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be YYYY-MM-DD"})
		return nil, false
	}
	t = t.UTC()
	return &t, true
}

// GetIncomeSnapshot returns the park's income snapshot, recomputed from
// current revenue records. Accepts optional from/to date filters.
func (a *API) GetIncomeSnapshot(c *gin.Context) {
	from, ok := parseDateParam(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateParam(c, "to")
	if !ok {
		return
	}

	snap, err := a.Income.Snapshot(c.Request.Context(), c.Param("park"), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// GetExpenseSnapshot returns the park's committed-spend snapshot.
func (a *API) GetExpenseSnapshot(c *gin.Context) {
	snap, err := a.Expense.Snapshot(c.Request.Context(), c.Param("park"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
