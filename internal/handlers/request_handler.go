// internal/handlers/request_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"parkgov-crm/models"
)

type fundRequestInput struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category" binding:"required"`
	Urgency     string          `json:"urgency" binding:"required"`
	ParkName    string          `json:"parkName" binding:"required"`
}

func (in *fundRequestInput) toModel() *models.FundRequest {
	return &models.FundRequest{
		RequestCore: models.RequestCore{
			Title:       in.Title,
			Description: in.Description,
			Amount:      in.Amount,
			ParkName:    in.ParkName,
		},
		Category: in.Category,
		Urgency:  models.Urgency(in.Urgency),
	}
}

type extraFundsRequestInput struct {
	Title            string          `json:"title" binding:"required"`
	Description      string          `json:"description" binding:"required"`
	Amount           decimal.Decimal `json:"amount"`
	Category         string          `json:"category" binding:"required"`
	Justification    string          `json:"justification"`
	ExpectedDuration string          `json:"expectedDuration" binding:"required"`
	ParkName         string          `json:"parkName" binding:"required"`
}

func (in *extraFundsRequestInput) toModel() *models.ExtraFundsRequest {
	return &models.ExtraFundsRequest{
		RequestCore: models.RequestCore{
			Title:       in.Title,
			Description: in.Description,
			Amount:      in.Amount,
			ParkName:    in.ParkName,
		},
		Category:         in.Category,
		Justification:    in.Justification,
		ExpectedDuration: in.ExpectedDuration,
	}
}

type emergencyRequestInput struct {
	Title         string          `json:"title" binding:"required"`
	Description   string          `json:"description" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	EmergencyType string          `json:"emergencyType" binding:"required"`
	Justification string          `json:"justification"`
	Timeframe     string          `json:"timeframe" binding:"required"`
	ParkName      string          `json:"parkName" binding:"required"`
}

func (in *emergencyRequestInput) toModel() *models.EmergencyRequest {
	return &models.EmergencyRequest{
		RequestCore: models.RequestCore{
			Title:       in.Title,
			Description: in.Description,
			Amount:      in.Amount,
			ParkName:    in.ParkName,
		},
		EmergencyType: in.EmergencyType,
		Justification: in.Justification,
		Timeframe:     models.Timeframe(in.Timeframe),
	}
}

func (a *API) createRequest(c *gin.Context, req models.Request) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	if err := a.Requests.Create(c.Request.Context(), actor, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": req.Core().ID})
}

// CreateFundRequest handles POST /fund-requests (park staff).
func (a *API) CreateFundRequest(c *gin.Context) {
	var in fundRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a.createRequest(c, in.toModel())
}

// CreateExtraFundsRequest handles POST /extra-funds-requests (finance).
func (a *API) CreateExtraFundsRequest(c *gin.Context) {
	var in extraFundsRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a.createRequest(c, in.toModel())
}

// CreateEmergencyRequest handles POST /emergency-requests (finance).
func (a *API) CreateEmergencyRequest(c *gin.Context) {
	var in emergencyRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a.createRequest(c, in.toModel())
}

// ListRequests handles GET for a request kind, optionally filtered by
// ?park=. Reads are open to every authenticated role.
func (a *API) ListRequests(kind models.RequestKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		requests, err := a.Requests.List(c.Request.Context(), kind, c.Query("park"))
		if err != nil {
			respondError(c, err)
			return
		}
		if requests == nil {
			requests = make([]models.Request, 0)
		}
		c.JSON(http.StatusOK, requests)
	}
}

// GetRequest handles GET /:id for a request kind.
func (a *API) GetRequest(kind models.RequestKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		req, err := a.Requests.Get(c.Request.Context(), kind, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, req)
	}
}

// UpdateRequest handles PUT /:id for a request kind: edit-while-pending by
// the submitting role.
func (a *API) UpdateRequest(kind models.RequestKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorOrAbort(c)
		if !ok {
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}

		var edit models.Request
		switch kind {
		case models.KindFundRequest:
			var in fundRequestInput
			if err := c.ShouldBindJSON(&in); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			edit = in.toModel()
		case models.KindExtraFundsRequest:
			var in extraFundsRequestInput
			if err := c.ShouldBindJSON(&in); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			edit = in.toModel()
		case models.KindEmergencyRequest:
			var in emergencyRequestInput
			if err := c.ShouldBindJSON(&in); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			edit = in.toModel()
		}

		if err := a.Requests.Update(c.Request.Context(), actor, kind, id, edit); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "request updated"})
	}
}

type decisionInput struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// DecideRequest handles PUT /:id/status with {status: approved|rejected,
// reason}. Approval re-runs the admission gate against a fresh snapshot;
// rejection requires an auditable reason.
func (a *API) DecideRequest(kind models.RequestKind) gin.HandlerFunc {
	return func(c *gin.Context) {
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

		var err error
		switch models.RequestStatus(in.Status) {
		case models.StatusApproved:
			err = a.Requests.Approve(c.Request.Context(), actor, kind, id)
		case models.StatusRejected:
			err = a.Requests.Reject(c.Request.Context(), actor, kind, id, in.Reason)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be 'approved' or 'rejected'"})
			return
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "request " + in.Status + " successfully"})
	}
}
