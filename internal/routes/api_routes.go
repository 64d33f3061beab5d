// internal/routes/api_routes.go
package routes

import (
	"github.com/gin-gonic/gin"

	"parkgov-crm/internal/handlers"
	"parkgov-crm/internal/middleware"
	"parkgov-crm/models"
)

// Register wires the whole HTTP surface. Revenue capture endpoints are
// public (visitors donate and book tours); everything else goes through the
// auth middleware. Role gating happens inside the services, per actor, not
// in route middleware.
func Register(r *gin.Engine, api *handlers.API, auth gin.HandlerFunc) {
	r.Use(middleware.RequestID())

	r.POST("/api/donations", api.RecordDonation)
	r.POST("/api/tours", api.RecordTourBooking)

	authed := r.Group("/api", auth)
	{
		parks := authed.Group("/parks/:park")
		{
			parks.GET("/income", api.GetIncomeSnapshot)
			parks.GET("/expenses", api.GetExpenseSnapshot)
		}

		fund := authed.Group("/fund-requests")
		{
			fund.POST("", api.CreateFundRequest)
			fund.GET("", api.ListRequests(models.KindFundRequest))
			fund.GET("/:id", api.GetRequest(models.KindFundRequest))
			fund.PUT("/:id", api.UpdateRequest(models.KindFundRequest))
			fund.PUT("/:id/status", api.DecideRequest(models.KindFundRequest))
		}

		extra := authed.Group("/extra-funds-requests")
		{
			extra.POST("", api.CreateExtraFundsRequest)
			extra.GET("", api.ListRequests(models.KindExtraFundsRequest))
			extra.GET("/:id", api.GetRequest(models.KindExtraFundsRequest))
			extra.PUT("/:id", api.UpdateRequest(models.KindExtraFundsRequest))
			extra.PUT("/:id/status", api.DecideRequest(models.KindExtraFundsRequest))
		}

		emergency := authed.Group("/emergency-requests")
		{
			emergency.POST("", api.CreateEmergencyRequest)
			emergency.GET("", api.ListRequests(models.KindEmergencyRequest))
			emergency.GET("/:id", api.GetRequest(models.KindEmergencyRequest))
			emergency.PUT("/:id", api.UpdateRequest(models.KindEmergencyRequest))
			emergency.PUT("/:id/status", api.DecideRequest(models.KindEmergencyRequest))
		}

		budgets := authed.Group("/budgets")
		{
			budgets.POST("", api.CreateBudget)
			budgets.GET("", api.ListBudgets)
			budgets.GET("/:id", api.GetBudget)
			budgets.PUT("/:id", api.UpdateBudget)
			budgets.POST("/:id/items", api.AddBudgetItem)
			budgets.PUT("/:id/items/:itemId", api.UpdateBudgetItem)
			budgets.DELETE("/:id/items/:itemId", api.RemoveBudgetItem)
			budgets.POST("/:id/submit", api.SubmitBudget)
			budgets.GET("/:id/review", api.GetBudgetReview)
			budgets.PUT("/:id/status", api.DecideBudget)
		}
	}
}
