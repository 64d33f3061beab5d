// internal/storage/gorm.go
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"parkgov-crm/internal/workflow"
	"parkgov-crm/models"
)

// Store is the Postgres-backed store for users, revenue records, funding
// requests and budgets. Status transitions are guarded UPDATEs
// (compare-and-swap on status), so two concurrent decisions on one entity
// cannot both commit.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the schema for every portal entity.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(
		&models.User{},
		&models.Donation{},
		&models.TourBooking{},
		&models.FundRequest{},
		&models.ExtraFundsRequest{},
		&models.EmergencyRequest{},
		&models.Budget{},
		&models.BudgetItem{},
	)
}

// UserByID resolves a token subject to a portal account.
func (s *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateDonation records a donation revenue row.
func (s *Store) CreateDonation(ctx context.Context, d *models.Donation) error {
	return s.db.WithContext(ctx).Create(d).Error
}

// CreateTourBooking records a tour booking revenue row.
func (s *Store) CreateTourBooking(ctx context.Context, t *models.TourBooking) error {
	return s.db.WithContext(ctx).Create(t).Error
}

// RevenueRecords flattens donations and tour bookings for a park into the
// read-only view the income aggregator consumes.
func (s *Store) RevenueRecords(ctx context.Context, park string, from, to *time.Time) ([]models.RevenueRecord, error) {
	ranged := func(q *gorm.DB) *gorm.DB {
		if from != nil {
			q = q.Where("created_at >= ?", *from)
		}
		if to != nil {
			q = q.Where("created_at <= ?", *to)
		}
		return q
	}

	var donations []models.Donation
	if err := ranged(s.db.WithContext(ctx).Where("park_name = ?", park)).Find(&donations).Error; err != nil {
		return nil, err
	}
	var tours []models.TourBooking
	if err := ranged(s.db.WithContext(ctx).Where("park_name = ?", park)).Find(&tours).Error; err != nil {
		return nil, err
	}

	records := make([]models.RevenueRecord, 0, len(donations)+len(tours))
	for _, d := range donations {
		records = append(records, models.RevenueRecord{
			ID: d.ID, ParkName: d.ParkName, Amount: d.Amount,
			Kind: models.RevenueDonation, CreatedAt: d.CreatedAt,
		})
	}
	for _, t := range tours {
		records = append(records, models.RevenueRecord{
			ID: t.ID, ParkName: t.ParkName, Amount: t.Amount,
			Kind: models.RevenueTour, CreatedAt: t.CreatedAt,
		})
	}
	return records, nil
}

// SumRequests totals request amounts of one kind for a park and status set.
func (s *Store) SumRequests(ctx context.Context, kind models.RequestKind, park string, statuses []models.RequestStatus) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := s.db.WithContext(ctx).
		Model(models.NewRequest(kind)).
		Where("park_name = ? AND status IN ?", park, statuses).
		Select("COALESCE(SUM(amount), 0)").
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (s *Store) CreateRequest(ctx context.Context, req models.Request) error {
	return s.db.WithContext(ctx).Create(req).Error
}

func (s *Store) GetRequest(ctx context.Context, kind models.RequestKind, id uint) (models.Request, error) {
	req := models.NewRequest(kind)
	if err := s.db.WithContext(ctx).First(req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (s *Store) ListRequests(ctx context.Context, kind models.RequestKind, park string) ([]models.Request, error) {
	q := s.db.WithContext(ctx).Order("id asc")
	if park != "" {
		q = q.Where("park_name = ?", park)
	}

	var out []models.Request
	switch kind {
	case models.KindFundRequest:
		var rows []models.FundRequest
		if err := q.Find(&rows).Error; err != nil {
			return nil, err
		}
		for i := range rows {
			out = append(out, &rows[i])
		}
	case models.KindExtraFundsRequest:
		var rows []models.ExtraFundsRequest
		if err := q.Find(&rows).Error; err != nil {
			return nil, err
		}
		for i := range rows {
			out = append(out, &rows[i])
		}
	case models.KindEmergencyRequest:
		var rows []models.EmergencyRequest
		if err := q.Find(&rows).Error; err != nil {
			return nil, err
		}
		for i := range rows {
			out = append(out, &rows[i])
		}
	}
	return out, nil
}

// TransitionRequest is the CAS commit of a decision: the UPDATE only matches
// while the row is still pending, so the slower of two concurrent reviewers
// affects zero rows.
func (s *Store) TransitionRequest(ctx context.Context, kind models.RequestKind, id uint, to models.RequestStatus, stamp workflow.ReviewStamp) (bool, error) {
	updates := map[string]any{
		"status":      to,
		"reviewed_by": stamp.ReviewerID,
		"reviewed_at": stamp.At,
	}
	if stamp.Reason != "" {
		updates["rejection_reason"] = stamp.Reason
	}
	tx := s.db.WithContext(ctx).
		Model(models.NewRequest(kind)).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(updates)
	return tx.RowsAffected > 0, tx.Error
}

// UpdateRequest rewrites the editable fields of req, guarded on the row
// still being pending.
func (s *Store) UpdateRequest(ctx context.Context, req models.Request) (bool, error) {
	core := req.Core()
	updates := map[string]any{
		"title":       core.Title,
		"description": core.Description,
		"amount":      core.Amount,
		"park_name":   core.ParkName,
	}
	switch r := req.(type) {
	case *models.FundRequest:
		updates["category"] = r.Category
		updates["urgency"] = r.Urgency
	case *models.ExtraFundsRequest:
		updates["category"] = r.Category
		updates["justification"] = r.Justification
		updates["expected_duration"] = r.ExpectedDuration
	case *models.EmergencyRequest:
		updates["emergency_type"] = r.EmergencyType
		updates["justification"] = r.Justification
		updates["timeframe"] = r.Timeframe
	}

	tx := s.db.WithContext(ctx).
		Model(models.NewRequest(req.Kind())).
		Where("id = ? AND status = ?", core.ID, models.StatusPending).
		Updates(updates)
	return tx.RowsAffected > 0, tx.Error
}

func (s *Store) CreateBudget(ctx context.Context, b *models.Budget) error {
	return s.db.WithContext(ctx).Create(b).Error
}

func (s *Store) GetBudget(ctx context.Context, id uint) (*models.Budget, error) {
	var b models.Budget
	if err := s.db.WithContext(ctx).Preload("Items").First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (s *Store) ListBudgets(ctx context.Context, park string) ([]*models.Budget, error) {
	q := s.db.WithContext(ctx).Preload("Items").Order("id asc")
	if park != "" {
		q = q.Where("park_name = ?", park)
	}
	var budgets []*models.Budget
	if err := q.Find(&budgets).Error; err != nil {
		return nil, err
	}
	return budgets, nil
}

var errNotDraft = errors.New("budget is not a draft")

// SaveDraft replaces the budget's fields and items inside one transaction,
// guarded on status=draft.
func (s *Store) SaveDraft(ctx context.Context, b *models.Budget) (bool, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Budget{}).
			Where("id = ? AND status = ?", b.ID, models.BudgetDraft).
			Updates(map[string]any{
				"title":        b.Title,
				"fiscal_year":  b.FiscalYear,
				"park_name":    b.ParkName,
				"total_amount": b.TotalAmount,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errNotDraft
		}
		if err := tx.Unscoped().Where("budget_id = ?", b.ID).Delete(&models.BudgetItem{}).Error; err != nil {
			return err
		}
		for i := range b.Items {
			b.Items[i].ID = 0
			b.Items[i].BudgetID = b.ID
		}
		return tx.Create(&b.Items).Error
	})
	if errors.Is(err, errNotDraft) {
		return false, nil
	}
	return err == nil, err
}

// TransitionBudget is the CAS commit of a submit or review decision.
func (s *Store) TransitionBudget(ctx context.Context, id uint, from, to models.BudgetStatus, stamp workflow.ReviewStamp) (bool, error) {
	updates := map[string]any{"status": to}
	if !stamp.At.IsZero() {
		updates["approved_by"] = stamp.ReviewerID
		updates["approved_at"] = stamp.At
		updates["reason"] = stamp.Reason
	}
	tx := s.db.WithContext(ctx).
		Model(&models.Budget{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return tx.RowsAffected > 0, tx.Error
}
