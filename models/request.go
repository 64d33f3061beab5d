// models/request.go
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RequestStatus is the lifecycle state of a funding request.
// pending is the only state a request can be acted on from; approved and
// rejected are terminal.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// RequestKind names the three sibling request kinds that share one
// lifecycle shape.
type RequestKind string

const (
	KindFundRequest       RequestKind = "fund"
	KindExtraFundsRequest RequestKind = "extra-funds"
	KindEmergencyRequest  RequestKind = "emergency"
)

// Urgency of an ordinary fund request.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Timeframe of an emergency request.
type Timeframe string

const (
	TimeframeImmediate Timeframe = "immediate"
	TimeframeUrgent    Timeframe = "urgent"
	TimeframeHigh      Timeframe = "high"
	TimeframeStandard  Timeframe = "standard"
)

// RequestCore carries the fields every funding request kind shares.
// ParkName is the park the money is for; CreatorPark is the submitter's home
// park, tracked separately for audit.
type RequestCore struct {
	gorm.Model
	Title           string          `json:"title" gorm:"not null"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	ParkName        string          `json:"parkName" gorm:"index;not null"`
	Status          RequestStatus   `json:"status" gorm:"index;default:'pending'"`
	RejectionReason string          `json:"rejectionReason"`
	CreatedBy       uint            `json:"createdBy"`
	CreatorPark     string          `json:"creatorPark"`
	ReviewedBy      *uint           `json:"reviewedBy"`
	ReviewedAt      *time.Time      `json:"reviewedAt"`
}

func (c *RequestCore) validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(c.ParkName) == "" {
		return errors.New("park name is required")
	}
	if !c.Amount.IsPositive() {
		return errors.New("amount must be positive")
	}
	return nil
}

// Request is the common surface of the three request kinds.
type Request interface {
	Kind() RequestKind
	Core() *RequestCore
	Validate() error
}

// FundRequest is an ordinary funding request raised by park staff.
type FundRequest struct {
	RequestCore
	Category string  `json:"category"`
	Urgency  Urgency `json:"urgency"`
}

func (r *FundRequest) Kind() RequestKind  { return KindFundRequest }
func (r *FundRequest) Core() *RequestCore { return &r.RequestCore }

func (r *FundRequest) Validate() error {
	if err := r.validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Category) == "" {
		return errors.New("category is required")
	}
	switch r.Urgency {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return nil
	}
	return fmt.Errorf("invalid urgency %q", r.Urgency)
}

// ExtraFundsRequest is raised by a finance officer when a park needs funds
// beyond its ordinary requests, over a stated duration.
type ExtraFundsRequest struct {
	RequestCore
	Category         string `json:"category"`
	Justification    string `json:"justification"`
	ExpectedDuration string `json:"expectedDuration"`
}

func (r *ExtraFundsRequest) Kind() RequestKind  { return KindExtraFundsRequest }
func (r *ExtraFundsRequest) Core() *RequestCore { return &r.RequestCore }

func (r *ExtraFundsRequest) Validate() error {
	if err := r.validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Category) == "" {
		return errors.New("category is required")
	}
	if strings.TrimSpace(r.ExpectedDuration) == "" {
		return errors.New("expected duration is required")
	}
	return nil
}

// EmergencyRequest is raised by a finance officer for unforeseen events.
type EmergencyRequest struct {
	RequestCore
	EmergencyType string    `json:"emergencyType"`
	Justification string    `json:"justification"`
	Timeframe     Timeframe `json:"timeframe"`
}

func (r *EmergencyRequest) Kind() RequestKind  { return KindEmergencyRequest }
func (r *EmergencyRequest) Core() *RequestCore { return &r.RequestCore }

func (r *EmergencyRequest) Validate() error {
	if err := r.validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.EmergencyType) == "" {
		return errors.New("emergency type is required")
	}
	switch r.Timeframe {
	case TimeframeImmediate, TimeframeUrgent, TimeframeHigh, TimeframeStandard:
		return nil
	}
	return fmt.Errorf("invalid timeframe %q", r.Timeframe)
}

// NewRequest returns an empty request of the given kind, or nil for an
// unknown kind.
func NewRequest(kind RequestKind) Request {
	switch kind {
	case KindFundRequest:
		return &FundRequest{}
	case KindExtraFundsRequest:
		return &ExtraFundsRequest{}
	case KindEmergencyRequest:
		return &EmergencyRequest{}
	}
	return nil
}
