// internal/workflow/budget.go
package workflow

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"parkgov-crm/internal/authz"
	"parkgov-crm/internal/finance"
	"parkgov-crm/models"
)

// BudgetService drives the draft -> submitted -> approved|rejected budget
// lifecycle. A budget's total is not clipped by the admission threshold;
// the review surface instead exposes both park snapshots so the reviewer
// can judge magnitude.
type BudgetService struct {
	store   BudgetStore
	income  *finance.IncomeService
	expense *finance.ExpenseService
}

func NewBudgetService(store BudgetStore, income *finance.IncomeService, expense *finance.ExpenseService) *BudgetService {
	return &BudgetService{store: store, income: income, expense: expense}
}

func validateItems(items []models.BudgetItem) error {
	if len(items) == 0 {
		return validationf("a budget must have at least one item")
	}
	for i, item := range items {
		if strings.TrimSpace(item.Category) == "" {
			return validationf("item %d: category is required", i+1)
		}
		if strings.TrimSpace(item.Description) == "" {
			return validationf("item %d: description is required", i+1)
		}
		if !item.Amount.IsPositive() {
			return validationf("item %d: amount must be positive", i+1)
		}
		if item.Type != models.ItemIncome && item.Type != models.ItemExpense {
			return validationf("item %d: type must be income or expense", i+1)
		}
	}
	return nil
}

// Create stores a new draft budget. TotalAmount is derived from the items,
// never taken from input.
func (s *BudgetService) Create(ctx context.Context, actor authz.Actor, b *models.Budget) error {
	if !authz.Can(actor.Role, authz.ActionCreate, authz.EntityBudget) {
		return ErrForbidden
	}
	if strings.TrimSpace(b.Title) == "" {
		return validationf("title is required")
	}
	if strings.TrimSpace(b.FiscalYear) == "" {
		return validationf("fiscal year is required")
	}
	if strings.TrimSpace(b.ParkName) == "" {
		return validationf("park name is required")
	}
	if err := validateItems(b.Items); err != nil {
		return err
	}

	b.Status = models.BudgetDraft
	b.CreatedBy = actor.UserID
	b.Reason = ""
	b.ApprovedBy = nil
	b.ApprovedAt = nil
	b.RecomputeTotal()

	if err := s.store.CreateBudget(ctx, b); err != nil {
		return err
	}
	slog.Info("budget created", "id", b.ID, "park", b.ParkName,
		"fiscalYear", b.FiscalYear, "total", b.TotalAmount, "by", actor.Login)
	return nil
}

// Get loads a budget with its items.
func (s *BudgetService) Get(ctx context.Context, id uint) (*models.Budget, error) {
	return s.store.GetBudget(ctx, id)
}

// List returns budgets, optionally filtered by park.
func (s *BudgetService) List(ctx context.Context, park string) ([]*models.Budget, error) {
	return s.store.ListBudgets(ctx, park)
}

// applyDraftChange loads the budget, verifies it is still a draft, applies
// mutate, revalidates items, recomputes the total and saves with a
// status=draft guard.
func (s *BudgetService) applyDraftChange(ctx context.Context, actor authz.Actor, id uint, mutate func(*models.Budget) error) (*models.Budget, error) {
	if !authz.Can(actor.Role, authz.ActionUpdate, authz.EntityBudget) {
		return nil, ErrForbidden
	}
	b, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != models.BudgetDraft {
		// Submitted budgets are a request for review, not a working copy;
		// changes go into a new draft.
		return nil, ErrInvalidState
	}
	if err := mutate(b); err != nil {
		return nil, err
	}
	if err := validateItems(b.Items); err != nil {
		return nil, err
	}
	b.RecomputeTotal()

	ok, err := s.store.SaveDraft(ctx, b)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidState
	}
	return b, nil
}

// UpdateDraft replaces title, fiscal year, park and items of a draft budget.
func (s *BudgetService) UpdateDraft(ctx context.Context, actor authz.Actor, id uint, edit *models.Budget) (*models.Budget, error) {
	b, err := s.applyDraftChange(ctx, actor, id, func(b *models.Budget) error {
		if strings.TrimSpace(edit.Title) == "" {
			return validationf("title is required")
		}
		if strings.TrimSpace(edit.FiscalYear) == "" {
			return validationf("fiscal year is required")
		}
		if strings.TrimSpace(edit.ParkName) == "" {
			return validationf("park name is required")
		}
		b.Title = edit.Title
		b.FiscalYear = edit.FiscalYear
		b.ParkName = edit.ParkName
		b.Items = edit.Items
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("budget updated", "id", id, "total", b.TotalAmount, "by", actor.Login)
	return b, nil
}

// AddItem appends a line item to a draft budget.
func (s *BudgetService) AddItem(ctx context.Context, actor authz.Actor, id uint, item models.BudgetItem) (*models.Budget, error) {
	return s.applyDraftChange(ctx, actor, id, func(b *models.Budget) error {
		item.BudgetID = b.ID
		b.Items = append(b.Items, item)
		return nil
	})
}

// UpdateItem replaces an existing line item of a draft budget.
func (s *BudgetService) UpdateItem(ctx context.Context, actor authz.Actor, id, itemID uint, item models.BudgetItem) (*models.Budget, error) {
	return s.applyDraftChange(ctx, actor, id, func(b *models.Budget) error {
		for i := range b.Items {
			if b.Items[i].ID == itemID {
				b.Items[i].Category = item.Category
				b.Items[i].Description = item.Description
				b.Items[i].Amount = item.Amount
				b.Items[i].Type = item.Type
				return nil
			}
		}
		return ErrNotFound
	})
}

// RemoveItem deletes a line item from a draft budget. The last remaining
// item cannot be removed; a budget always has at least one.
func (s *BudgetService) RemoveItem(ctx context.Context, actor authz.Actor, id, itemID uint) (*models.Budget, error) {
	return s.applyDraftChange(ctx, actor, id, func(b *models.Budget) error {
		if len(b.Items) == 1 {
			return validationf("a budget must keep at least one item")
		}
		for i := range b.Items {
			if b.Items[i].ID == itemID {
				b.Items = append(b.Items[:i], b.Items[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

// Submit moves a draft budget into government review. One-way: finance may
// no longer edit it afterwards.
func (s *BudgetService) Submit(ctx context.Context, actor authz.Actor, id uint) error {
	if !authz.Can(actor.Role, authz.ActionSubmit, authz.EntityBudget) {
		return ErrForbidden
	}
	if _, err := s.store.GetBudget(ctx, id); err != nil {
		return err
	}
	ok, err := s.store.TransitionBudget(ctx, id, models.BudgetDraft, models.BudgetSubmitted, ReviewStamp{})
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidState
	}
	slog.Info("budget submitted", "id", id, "by", actor.Login)
	return nil
}

// Review decides a submitted budget. A reason is mandatory for rejection and
// optional for approval.
func (s *BudgetService) Review(ctx context.Context, actor authz.Actor, id uint, decision models.BudgetStatus, reason string) error {
	if !authz.Can(actor.Role, authz.ActionReview, authz.EntityBudget) {
		return ErrForbidden
	}
	if decision != models.BudgetApproved && decision != models.BudgetRejected {
		return validationf("decision must be approved or rejected")
	}
	reason = strings.TrimSpace(reason)
	if decision == models.BudgetRejected && len(reason) < MinReasonLength {
		return validationf("rejection reason must be at least %d characters", MinReasonLength)
	}

	b, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return err
	}
	if b.Status != models.BudgetSubmitted {
		return ErrInvalidState
	}

	ok, err := s.store.TransitionBudget(ctx, id, models.BudgetSubmitted, decision, ReviewStamp{
		ReviewerID: actor.UserID,
		Reason:     reason,
		At:         time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidState
	}
	slog.Info("budget reviewed", "id", id, "decision", decision, "by", actor.Login)
	return nil
}

// ReviewSurface is what a government reviewer sees: the budget plus the
// park's current income and expense snapshots. The snapshots are advisory
// context, they do not gate the decision.
type ReviewSurface struct {
	Budget  *models.Budget          `json:"budget"`
	Income  finance.IncomeSnapshot  `json:"income"`
	Expense finance.ExpenseSnapshot `json:"expense"`
}

// Surface loads the review surface for a budget (any status: approved and
// rejected budgets stay viewable read-only).
func (s *BudgetService) Surface(ctx context.Context, id uint) (*ReviewSurface, error) {
	b, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}
	income, err := s.income.Snapshot(ctx, b.ParkName, nil, nil)
	if err != nil {
		return nil, err
	}
	expense, err := s.expense.Snapshot(ctx, b.ParkName)
	if err != nil {
		return nil, err
	}
	return &ReviewSurface{Budget: b, Income: income, Expense: expense}, nil
}
