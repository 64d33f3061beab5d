// models/budget.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetStatus is the lifecycle state of a park budget.
// draft budgets may be edited and resubmitted freely; submitted is a one-way
// gate into government review; approved and rejected are terminal.
type BudgetStatus string

const (
	BudgetDraft     BudgetStatus = "draft"
	BudgetSubmitted BudgetStatus = "submitted"
	BudgetApproved  BudgetStatus = "approved"
	BudgetRejected  BudgetStatus = "rejected"
)

// BudgetItemType marks a line item as planned income or expense.
type BudgetItemType string

const (
	ItemIncome  BudgetItemType = "income"
	ItemExpense BudgetItemType = "expense"
)

// BudgetItem is a single line of a budget.
type BudgetItem struct {
	gorm.Model
	BudgetID    uint            `json:"budgetId" gorm:"index;not null"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	Type        BudgetItemType  `json:"type"`
}

// Budget is a park's itemized fiscal-year plan. TotalAmount is derived from
// the items and recomputed on every item mutation, never accepted from input.
type Budget struct {
	gorm.Model
	Title       string          `json:"title" gorm:"not null"`
	FiscalYear  string          `json:"fiscalYear" gorm:"not null"`
	ParkName    string          `json:"parkName" gorm:"index;not null"`
	Status      BudgetStatus    `json:"status" gorm:"index;default:'draft'"`
	TotalAmount decimal.Decimal `json:"totalAmount" gorm:"type:numeric(12,2)"`
	Reason      string          `json:"reason"`
	CreatedBy   uint            `json:"createdBy"`
	ApprovedBy  *uint           `json:"approvedBy"`
	ApprovedAt  *time.Time      `json:"approvedAt"`
	Items       []BudgetItem    `json:"items" gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE"`
}

// RecomputeTotal resets TotalAmount to the sum of the current items.
func (b *Budget) RecomputeTotal() {
	total := decimal.Zero
	for _, item := range b.Items {
		total = total.Add(item.Amount)
	}
	b.TotalAmount = total
}
