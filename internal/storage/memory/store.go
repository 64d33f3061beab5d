// internal/storage/memory/store.go
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"parkgov-crm/internal/workflow"
	"parkgov-crm/models"
)

// Store is an in-memory implementation of the request, budget and revenue
// stores, safe for concurrent use. It honours the same compare-and-swap
// contract on status transitions as the database store and backs the
// lifecycle tests.
type Store struct {
	mu       sync.RWMutex
	requests map[models.RequestKind]map[uint]models.Request
	budgets  map[uint]*models.Budget
	revenue  []models.RevenueRecord
	users    map[uint]*models.User
	nextID   uint

	// RevenueErr, when set, makes revenue reads fail, simulating an
	// unreachable revenue source.
	RevenueErr error
}

func NewStore() *Store {
	return &Store{
		requests: map[models.RequestKind]map[uint]models.Request{
			models.KindFundRequest:       {},
			models.KindExtraFundsRequest: {},
			models.KindEmergencyRequest:  {},
		},
		budgets: map[uint]*models.Budget{},
		users:   map[uint]*models.User{},
	}
}

func (s *Store) allocID() uint {
	s.nextID++
	return s.nextID
}

func cloneRequest(req models.Request) models.Request {
	switch r := req.(type) {
	case *models.FundRequest:
		c := *r
		return &c
	case *models.ExtraFundsRequest:
		c := *r
		return &c
	case *models.EmergencyRequest:
		c := *r
		return &c
	}
	return nil
}

func cloneBudget(b *models.Budget) *models.Budget {
	c := *b
	c.Items = append([]models.BudgetItem(nil), b.Items...)
	return &c
}

// AddRevenue seeds a revenue record.
func (s *Store) AddRevenue(rec models.RevenueRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = s.allocID()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.revenue = append(s.revenue, rec)
}

// AddUser seeds a portal account.
func (s *Store) AddUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.allocID()
	}
	c := *u
	s.users[u.ID] = &c
}

func (s *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, workflow.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (s *Store) RevenueRecords(ctx context.Context, park string, from, to *time.Time) ([]models.RevenueRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.RevenueErr != nil {
		return nil, s.RevenueErr
	}
	var out []models.RevenueRecord
	for _, rec := range s.revenue {
		if rec.ParkName != park {
			continue
		}
		if from != nil && rec.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && rec.CreatedAt.After(*to) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *Store) SumRequests(ctx context.Context, kind models.RequestKind, park string, statuses []models.RequestStatus) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, req := range s.requests[kind] {
		core := req.Core()
		if core.ParkName != park {
			continue
		}
		for _, status := range statuses {
			if core.Status == status {
				total = total.Add(core.Amount)
				break
			}
		}
	}
	return total, nil
}

func (s *Store) CreateRequest(ctx context.Context, req models.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	core := req.Core()
	core.ID = s.allocID()
	core.CreatedAt = time.Now().UTC()
	s.requests[req.Kind()][core.ID] = cloneRequest(req)
	return nil
}

func (s *Store) GetRequest(ctx context.Context, kind models.RequestKind, id uint) (models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.requests[kind][id]
	if !ok {
		return nil, workflow.ErrNotFound
	}
	return cloneRequest(req), nil
}

func (s *Store) ListRequests(ctx context.Context, kind models.RequestKind, park string) ([]models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Request
	for _, req := range s.requests[kind] {
		if park != "" && req.Core().ParkName != park {
			continue
		}
		out = append(out, cloneRequest(req))
	}
	return out, nil
}

func (s *Store) TransitionRequest(ctx context.Context, kind models.RequestKind, id uint, to models.RequestStatus, stamp workflow.ReviewStamp) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[kind][id]
	if !ok {
		return false, workflow.ErrNotFound
	}
	core := req.Core()
	if core.Status != models.StatusPending {
		return false, nil
	}
	core.Status = to
	reviewer := stamp.ReviewerID
	at := stamp.At
	core.ReviewedBy = &reviewer
	core.ReviewedAt = &at
	if stamp.Reason != "" {
		core.RejectionReason = stamp.Reason
	}
	return true, nil
}

func (s *Store) UpdateRequest(ctx context.Context, req models.Request) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	core := req.Core()
	stored, ok := s.requests[req.Kind()][core.ID]
	if !ok {
		return false, workflow.ErrNotFound
	}
	if stored.Core().Status != models.StatusPending {
		return false, nil
	}
	clone := cloneRequest(req)
	clone.Core().Status = models.StatusPending
	s.requests[req.Kind()][core.ID] = clone
	return true, nil
}

func (s *Store) CreateBudget(ctx context.Context, b *models.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.allocID()
	b.CreatedAt = time.Now().UTC()
	for i := range b.Items {
		b.Items[i].ID = s.allocID()
		b.Items[i].BudgetID = b.ID
	}
	s.budgets[b.ID] = cloneBudget(b)
	return nil
}

func (s *Store) GetBudget(ctx context.Context, id uint) (*models.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.budgets[id]
	if !ok {
		return nil, workflow.ErrNotFound
	}
	return cloneBudget(b), nil
}

func (s *Store) ListBudgets(ctx context.Context, park string) ([]*models.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Budget
	for _, b := range s.budgets {
		if park != "" && b.ParkName != park {
			continue
		}
		out = append(out, cloneBudget(b))
	}
	return out, nil
}

func (s *Store) SaveDraft(ctx context.Context, b *models.Budget) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.budgets[b.ID]
	if !ok {
		return false, workflow.ErrNotFound
	}
	if stored.Status != models.BudgetDraft {
		return false, nil
	}
	for i := range b.Items {
		if b.Items[i].ID == 0 {
			b.Items[i].ID = s.allocID()
		}
		b.Items[i].BudgetID = b.ID
	}
	clone := cloneBudget(b)
	clone.Status = models.BudgetDraft
	s.budgets[b.ID] = clone
	return true, nil
}

func (s *Store) TransitionBudget(ctx context.Context, id uint, from, to models.BudgetStatus, stamp workflow.ReviewStamp) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[id]
	if !ok {
		return false, workflow.ErrNotFound
	}
	if b.Status != from {
		return false, nil
	}
	b.Status = to
	if !stamp.At.IsZero() {
		reviewer := stamp.ReviewerID
		at := stamp.At
		b.ApprovedBy = &reviewer
		b.ApprovedAt = &at
		b.Reason = stamp.Reason
	}
	return true, nil
}
