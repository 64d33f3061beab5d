package finance

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"parkgov-crm/models"
)

type stubSummer struct {
	// amounts by kind and status
	amounts map[models.RequestKind]map[models.RequestStatus]string
}

func (s *stubSummer) SumRequests(ctx context.Context, kind models.RequestKind, park string, statuses []models.RequestStatus) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, status := range statuses {
		if v, ok := s.amounts[kind][status]; ok {
			total = total.Add(dec(v))
		}
	}
	return total, nil
}

func TestExpenseSnapshot_ApprovedOnly(t *testing.T) {
	summer := &stubSummer{amounts: map[models.RequestKind]map[models.RequestStatus]string{
		models.KindFundRequest:       {models.StatusApproved: "1200.50", models.StatusPending: "400"},
		models.KindExtraFundsRequest: {models.StatusApproved: "300", models.StatusPending: "99"},
		models.KindEmergencyRequest:  {models.StatusApproved: "0.50"},
	}}

	snap, err := NewExpenseService(summer, false).Snapshot(context.Background(), "Akagera")
	require.NoError(t, err)
	assertDec(t, "1200.50", snap.FundRequests)
	assertDec(t, "300", snap.ExtraFunds)
	assertDec(t, "0.50", snap.Emergency)
	assertDec(t, "1501.00", snap.Total)
}

func TestExpenseSnapshot_CountPendingPolicy(t *testing.T) {
	summer := &stubSummer{amounts: map[models.RequestKind]map[models.RequestStatus]string{
		models.KindFundRequest:       {models.StatusApproved: "1000", models.StatusPending: "500"},
		models.KindExtraFundsRequest: {models.StatusPending: "250"},
		models.KindEmergencyRequest:  {},
	}}

	snap, err := NewExpenseService(summer, true).Snapshot(context.Background(), "Akagera")
	require.NoError(t, err)
	assertDec(t, "1500", snap.FundRequests)
	assertDec(t, "250", snap.ExtraFunds)
	assertDec(t, "1750", snap.Total)
}
