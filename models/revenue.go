// models/revenue.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Donation is a recorded donation towards a park. Payment capture itself is
// handled elsewhere; this is the revenue record the income snapshot reads.
type Donation struct {
	gorm.Model
	DonationType string          `json:"donationType"`
	Amount       decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	ParkName     string          `json:"parkName" gorm:"index;not null"`
	FirstName    string          `json:"firstName"`
	LastName     string          `json:"lastName"`
	Email        string          `json:"email"`
}

// TourBooking is a paid tour reservation, the second revenue source.
type TourBooking struct {
	gorm.Model
	ParkName string          `json:"parkName" gorm:"index;not null"`
	TourName string          `json:"tourName"`
	Visitors int             `json:"visitors"`
	Amount   decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	Date     time.Time       `json:"date"`
}

// RevenueKind discriminates the two revenue sources.
type RevenueKind string

const (
	RevenueDonation RevenueKind = "donation"
	RevenueTour     RevenueKind = "tour"
)

// RevenueRecord is the read-only view the income aggregator consumes,
// flattened across donations and tour bookings.
type RevenueRecord struct {
	ID        uint            `json:"id"`
	ParkName  string          `json:"parkName"`
	Amount    decimal.Decimal `json:"amount"`
	Kind      RevenueKind     `json:"kind"`
	CreatedAt time.Time       `json:"createdAt"`
}
