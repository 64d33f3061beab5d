// internal/finance/expense.go
package finance

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"parkgov-crm/models"
)

// ExpenseSnapshot is the derived view of a park's committed spend across the
// three request kinds.
type ExpenseSnapshot struct {
	ParkName     string          `json:"parkName"`
	FundRequests decimal.Decimal `json:"fundRequests"`
	ExtraFunds   decimal.Decimal `json:"extraFunds"`
	Emergency    decimal.Decimal `json:"emergency"`
	Total        decimal.Decimal `json:"total"`
}

// RequestSummer totals request amounts for a park filtered by status.
type RequestSummer interface {
	SumRequests(ctx context.Context, kind models.RequestKind, park string, statuses []models.RequestStatus) (decimal.Decimal, error)
}

// ExpenseService computes expense snapshots. Whether pending requests count
// as committed spend is a policy choice; by default only approved ones do.
type ExpenseService struct {
	requests     RequestSummer
	countPending bool
}

func NewExpenseService(requests RequestSummer, countPending bool) *ExpenseService {
	return &ExpenseService{requests: requests, countPending: countPending}
}

// Snapshot sums request amounts per kind for the park.
func (s *ExpenseService) Snapshot(ctx context.Context, park string) (ExpenseSnapshot, error) {
	statuses := []models.RequestStatus{models.StatusApproved}
	if s.countPending {
		statuses = append(statuses, models.StatusPending)
	}

	snap := ExpenseSnapshot{ParkName: park}
	for _, kind := range []models.RequestKind{
		models.KindFundRequest,
		models.KindExtraFundsRequest,
		models.KindEmergencyRequest,
	} {
		sum, err := s.requests.SumRequests(ctx, kind, park, statuses)
		if err != nil {
			return ExpenseSnapshot{}, fmt.Errorf("sum %s requests for %q: %v: %w", kind, park, err, ErrDataUnavailable)
		}
		switch kind {
		case models.KindFundRequest:
			snap.FundRequests = sum
		case models.KindExtraFundsRequest:
			snap.ExtraFunds = sum
		case models.KindEmergencyRequest:
			snap.Emergency = sum
		}
	}
	snap.Total = snap.FundRequests.Add(snap.ExtraFunds).Add(snap.Emergency)
	return snap, nil
}
