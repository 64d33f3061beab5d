package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkgov-crm/models"
)

type stubReader struct {
	records []models.RevenueRecord
	err     error
}

func (s *stubReader) RevenueRecords(ctx context.Context, park string, from, to *time.Time) ([]models.RevenueRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func TestSnapshot_SubsidyFormula(t *testing.T) {
	reader := &stubReader{records: []models.RevenueRecord{
		{ParkName: "Akagera", Amount: dec("10000"), Kind: models.RevenueDonation},
		{ParkName: "Akagera", Amount: dec("5000"), Kind: models.RevenueTour},
	}}
	svc := NewIncomeService(reader)

	snap, err := svc.Snapshot(context.Background(), "Akagera", nil, nil)
	require.NoError(t, err)

	assertDec(t, "10000", snap.Donations)
	assertDec(t, "5000", snap.Tours)
	assertDec(t, "2647.06", snap.GovernmentSupport)
	assertDec(t, "17647.06", snap.Total)
}

func TestSnapshot_TotalIdentity(t *testing.T) {
	cases := []struct {
		donations, tours string
	}{
		{"0", "0"},
		{"0.01", "0"},
		{"123.45", "678.90"},
		{"999999.99", "0.01"},
	}
	for _, tc := range cases {
		reader := &stubReader{records: []models.RevenueRecord{
			{Amount: dec(tc.donations), Kind: models.RevenueDonation},
			{Amount: dec(tc.tours), Kind: models.RevenueTour},
		}}
		snap, err := NewIncomeService(reader).Snapshot(context.Background(), "p", nil, nil)
		require.NoError(t, err)

		base := dec(tc.donations).Add(dec(tc.tours))
		assert.True(t, snap.Total.Equal(base.Add(snap.GovernmentSupport)),
			"total %s != donations+tours+support for %+v", snap.Total, tc)
		assert.False(t, snap.GovernmentSupport.IsNegative(), "subsidy must never be negative")
		assert.True(t, snap.Total.GreaterThanOrEqual(base))

		// Within a cent of the exact formula.
		exact := base.Mul(dec("0.15")).Div(dec("0.85"))
		assert.True(t, snap.GovernmentSupport.Sub(exact).Abs().LessThanOrEqual(dec("0.005")))
	}
}

func TestSnapshot_EmptyDataIsAllZeros(t *testing.T) {
	svc := NewIncomeService(&stubReader{})

	snap, err := svc.Snapshot(context.Background(), "Nyungwe", nil, nil)
	require.NoError(t, err)
	assertDec(t, "0", snap.Donations)
	assertDec(t, "0", snap.Tours)
	assertDec(t, "0", snap.GovernmentSupport)
	assertDec(t, "0", snap.Total)
}

func TestSnapshot_ReaderFailureIsDataUnavailable(t *testing.T) {
	svc := NewIncomeService(&stubReader{err: errors.New("connection refused")})

	_, err := svc.Snapshot(context.Background(), "Akagera", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestSnapshot_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	reader := &stubReader{err: errors.New("connection refused")}
	svc := NewIncomeService(reader)

	for i := 0; i < 5; i++ {
		_, err := svc.Snapshot(context.Background(), "Akagera", nil, nil)
		require.ErrorIs(t, err, ErrDataUnavailable)
	}

	// Breaker is now open: calls fail fast without touching the reader,
	// still surfaced as the same retryable error.
	reader.err = nil
	_, err := svc.Snapshot(context.Background(), "Akagera", nil, nil)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}
