// internal/handlers/revenue_handler.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"parkgov-crm/models"
)

type donationInput struct {
	DonationType string          `json:"donationType" binding:"required"`
	Amount       decimal.Decimal `json:"amount"`
	ParkName     string          `json:"parkName" binding:"required"`
	FirstName    string          `json:"firstName" binding:"required"`
	LastName     string          `json:"lastName" binding:"required"`
	Email        string          `json:"email" binding:"required"`
}

// RecordDonation handles POST /donations. This records the revenue row the
// income snapshot reads; payment capture itself happens elsewhere.
func (a *API) RecordDonation(c *gin.Context) {
	var in donationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !in.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "donation amount must be positive"})
		return
	}

	d := &models.Donation{
		DonationType: in.DonationType,
		Amount:       in.Amount,
		ParkName:     in.ParkName,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
	}
	if err := a.Revenue.CreateDonation(c.Request.Context(), d); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": d.ID, "message": "donation recorded successfully"})
}

type tourBookingInput struct {
	ParkName string          `json:"parkName" binding:"required"`
	TourName string          `json:"tourName" binding:"required"`
	Visitors int             `json:"visitors"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date" binding:"required"`
}

// RecordTourBooking handles POST /tours.
func (a *API) RecordTourBooking(c *gin.Context) {
	var in tourBookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !in.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tour amount must be positive"})
		return
	}
	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	t := &models.TourBooking{
		ParkName: in.ParkName,
		TourName: in.TourName,
		Visitors: in.Visitors,
		Amount:   in.Amount,
		Date:     date.UTC(),
	}
	if err := a.Revenue.CreateTourBooking(c.Request.Context(), t); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": t.ID, "message": "tour booking recorded successfully"})
}
