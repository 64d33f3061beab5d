package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdmissible(t *testing.T) {
	cases := []struct {
		name       string
		total      string
		amount     string
		admissible bool
	}{
		{"well under threshold", "17647.06", "5000", true},
		{"exactly at threshold", "17647.06", "7058.82", true},
		{"just over threshold", "17647.06", "7058.83", false},
		{"far over threshold", "17647.06", "8000", false},
		{"zero income rejects any positive amount", "0", "0.01", false},
		{"zero income, smallest request", "0", "1", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := IncomeSnapshot{Total: dec(tc.total)}
			assert.Equal(t, tc.admissible, Admissible(dec(tc.amount), snap))
		})
	}
}

func TestThreshold_RoundsToCents(t *testing.T) {
	snap := IncomeSnapshot{Total: dec("17647.06")}
	assertDec(t, "7058.82", Threshold(snap))
}
