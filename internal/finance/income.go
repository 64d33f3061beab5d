// internal/finance/income.go
package finance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	"parkgov-crm/models"
)

// ErrDataUnavailable marks a snapshot failure caused by an unreachable
// revenue source. Callers may retry; nothing was committed.
var ErrDataUnavailable = errors.New("revenue data unavailable")

var (
	subsidyRate = decimal.NewFromFloat(0.15)
	one         = decimal.NewFromInt(1)
)

// IncomeSnapshot is a derived view of a park's income as of now. It is
// recomputed from revenue records on every call and never persisted, so the
// stored and true figures cannot drift apart.
type IncomeSnapshot struct {
	ParkName          string          `json:"parkName"`
	Donations         decimal.Decimal `json:"donations"`
	Tours             decimal.Decimal `json:"tours"`
	GovernmentSupport decimal.Decimal `json:"governmentSupport"`
	Total             decimal.Decimal `json:"total"`
}

// RevenueReader supplies the raw revenue records a snapshot is built from.
type RevenueReader interface {
	RevenueRecords(ctx context.Context, park string, from, to *time.Time) ([]models.RevenueRecord, error)
}

// IncomeService computes income snapshots. Revenue reads go through a
// circuit breaker so a struggling database degrades to fast
// ErrDataUnavailable responses instead of piling up slow failures.
type IncomeService struct {
	revenue RevenueReader
	breaker *gobreaker.CircuitBreaker
}

func NewIncomeService(revenue RevenueReader) *IncomeService {
	settings := gobreaker.Settings{
		Name:    "revenue-reader",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	}
	return &IncomeService{
		revenue: revenue,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// GovernmentSupport is the subsidy top-up that brings revenue to 15% of the
// final total: base * 0.15 / (1 - 0.15), rounded to cents.
func GovernmentSupport(base decimal.Decimal) decimal.Decimal {
	return base.Mul(subsidyRate).Div(one.Sub(subsidyRate)).Round(2)
}

// Snapshot computes the park's income snapshot from current revenue records,
// optionally limited to a creation-time window. Empty data yields an
// all-zero snapshot, not an error.
func (s *IncomeService) Snapshot(ctx context.Context, park string, from, to *time.Time) (IncomeSnapshot, error) {
	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.revenue.RevenueRecords(ctx, park, from, to)
	})
	if err != nil {
		return IncomeSnapshot{}, fmt.Errorf("revenue records for %q: %v: %w", park, err, ErrDataUnavailable)
	}
	records := result.([]models.RevenueRecord)

	donations := decimal.Zero
	tours := decimal.Zero
	for _, rec := range records {
		switch rec.Kind {
		case models.RevenueDonation:
			donations = donations.Add(rec.Amount)
		case models.RevenueTour:
			tours = tours.Add(rec.Amount)
		}
	}

	base := donations.Add(tours)
	support := GovernmentSupport(base)
	return IncomeSnapshot{
		ParkName:          park,
		Donations:         donations,
		Tours:             tours,
		GovernmentSupport: support,
		Total:             base.Add(support),
	}, nil
}
