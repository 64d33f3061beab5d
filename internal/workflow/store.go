// internal/workflow/store.go
package workflow

import (
	"context"
	"time"

	"parkgov-crm/models"
)

// ReviewStamp records who decided a transition, when, and why.
type ReviewStamp struct {
	ReviewerID uint
	Reason     string
	At         time.Time
}

// RequestStore is the durable home of the three request kinds. Transition
// methods are compare-and-swap on status: they only apply if the entity is
// still pending, and report false (not an error) when a concurrent
// transition got there first.
type RequestStore interface {
	CreateRequest(ctx context.Context, req models.Request) error
	// GetRequest returns ErrNotFound for an unknown id.
	GetRequest(ctx context.Context, kind models.RequestKind, id uint) (models.Request, error)
	ListRequests(ctx context.Context, kind models.RequestKind, park string) ([]models.Request, error)
	// TransitionRequest moves pending -> to, stamping the review. ok=false
	// means the request was no longer pending.
	TransitionRequest(ctx context.Context, kind models.RequestKind, id uint, to models.RequestStatus, stamp ReviewStamp) (bool, error)
	// UpdateRequest replaces the editable fields of req, guarded on the row
	// still being pending. ok=false means it was not.
	UpdateRequest(ctx context.Context, req models.Request) (bool, error)
}

// BudgetStore is the durable home of budgets, with the same CAS contract on
// status-guarded writes.
type BudgetStore interface {
	CreateBudget(ctx context.Context, b *models.Budget) error
	// GetBudget returns the budget with its items, or ErrNotFound.
	GetBudget(ctx context.Context, id uint) (*models.Budget, error)
	ListBudgets(ctx context.Context, park string) ([]*models.Budget, error)
	// SaveDraft replaces fields and items of b, guarded on status=draft.
	SaveDraft(ctx context.Context, b *models.Budget) (bool, error)
	// TransitionBudget moves from -> to, stamping the review when reviewing.
	TransitionBudget(ctx context.Context, id uint, from, to models.BudgetStatus, stamp ReviewStamp) (bool, error)
}
