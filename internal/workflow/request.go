// internal/workflow/request.go
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

func entityFor(kind models.RequestKind) authz.Entity {
	switch kind {
	case models.KindFundRequest:
		return authz.EntityFundRequest
	case models.KindExtraFundsRequest:
		return authz.EntityExtraFundsRequest
	case models.KindEmergencyRequest:
		return authz.EntityEmergencyRequest
	}
	return ""
}

// RequestService drives the shared pending -> approved|rejected lifecycle of
// the three request kinds. Role gates differ per kind; the admission
// threshold is evaluated at approval time against a fresh income snapshot.
type RequestService struct {
	store  RequestStore
	income *finance.IncomeService
}

func NewRequestService(store RequestStore, income *finance.IncomeService) *RequestService {
	return &RequestService{store: store, income: income}
}

// Create validates and stores a new request in pending state. The actor must
// hold the creating role for the kind; the actor's home park is recorded
// alongside the target park for audit.
func (s *RequestService) Create(ctx context.Context, actor authz.Actor, req models.Request) error {
	if !authz.Can(actor.Role, authz.ActionCreate, entityFor(req.Kind())) {
		return ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return &ValidationError{Msg: err.Error()}
	}

	core := req.Core()
	core.Status = models.StatusPending
	core.CreatedBy = actor.UserID
	core.CreatorPark = actor.ParkName
	core.RejectionReason = ""
	core.ReviewedBy = nil
	core.ReviewedAt = nil

	if err := s.store.CreateRequest(ctx, req); err != nil {
		return err
	}
	slog.Info("funding request created",
		"kind", req.Kind(), "id", core.ID, "park", core.ParkName,
		"amount", core.Amount, "by", actor.Login)
	return nil
}

// Get loads a single request of the given kind.
func (s *RequestService) Get(ctx context.Context, kind models.RequestKind, id uint) (models.Request, error) {
	return s.store.GetRequest(ctx, kind, id)
}

// List returns requests of a kind, optionally filtered by park. Reads are
// open to every authenticated role.
func (s *RequestService) List(ctx context.Context, kind models.RequestKind, park string) ([]models.Request, error) {
	return s.store.ListRequests(ctx, kind, park)
}

// Approve moves a pending request to approved. The amount must clear the
// admission threshold against the park's income as of now; an over-threshold
// request can only be rejected while it stays over the line.
func (s *RequestService) Approve(ctx context.Context, actor authz.Actor, kind models.RequestKind, id uint) error {
	req, err := s.store.GetRequest(ctx, kind, id)
	if err != nil {
		return err
	}
	core := req.Core()
	if core.Status != models.StatusPending {
		return ErrInvalidState
	}
	if !authz.Can(actor.Role, authz.ActionReview, entityFor(kind)) {
		return ErrForbidden
	}

	snap, err := s.income.Snapshot(ctx, core.ParkName, nil, nil)
	if err != nil {
		return err
	}
	if !finance.Admissible(core.Amount, snap) {
		return &ThresholdError{
			Requested:   core.Amount,
			Threshold:   finance.Threshold(snap),
			IncomeTotal: snap.Total,
		}
	}

	ok, err := s.store.TransitionRequest(ctx, kind, id, models.StatusApproved, ReviewStamp{
		ReviewerID: actor.UserID,
		At:         time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if !ok {
		// Lost the race against another transition.
		return ErrInvalidState
	}
	slog.Info("funding request approved", "kind", kind, "id", id, "by", actor.Login)
	return nil
}

// Reject moves a pending request to rejected. The reason is mandatory so the
// decision stays auditable.
func (s *RequestService) Reject(ctx context.Context, actor authz.Actor, kind models.RequestKind, id uint, reason string) error {
	reason = strings.TrimSpace(reason)
	if len(reason) < MinReasonLength {
		return validationf("rejection reason must be at least %d characters", MinReasonLength)
	}

	req, err := s.store.GetRequest(ctx, kind, id)
	if err != nil {
		return err
	}
	if req.Core().Status != models.StatusPending {
		return ErrInvalidState
	}
	if !authz.Can(actor.Role, authz.ActionReview, entityFor(kind)) {
		return ErrForbidden
	}

	ok, err := s.store.TransitionRequest(ctx, kind, id, models.StatusRejected, ReviewStamp{
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
	slog.Info("funding request rejected", "kind", kind, "id", id, "by", actor.Login)
	return nil
}

// Update replaces the editable fields of a pending request with those of
// edit (same kind). Status, id, creator and review fields are untouched.
// Only the submitting role for the kind may edit.
func (s *RequestService) Update(ctx context.Context, actor authz.Actor, kind models.RequestKind, id uint, edit models.Request) error {
	req, err := s.store.GetRequest(ctx, kind, id)
	if err != nil {
		return err
	}
	if req.Core().Status != models.StatusPending {
		return ErrInvalidState
	}
	if !authz.Can(actor.Role, authz.ActionUpdate, entityFor(kind)) {
		return ErrForbidden
	}

	copyEditable(req, edit)
	if err := req.Validate(); err != nil {
		return &ValidationError{Msg: err.Error()}
	}

	ok, err := s.store.UpdateRequest(ctx, req)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidState
	}
	slog.Info("funding request updated", "kind", kind, "id", id, "by", actor.Login)
	return nil
}

func copyEditable(dst, src models.Request) {
	dc, sc := dst.Core(), src.Core()
	dc.Title = sc.Title
	dc.Description = sc.Description
	dc.Amount = sc.Amount
	dc.ParkName = sc.ParkName

	switch d := dst.(type) {
	case *models.FundRequest:
		s := src.(*models.FundRequest)
		d.Category = s.Category
		d.Urgency = s.Urgency
	case *models.ExtraFundsRequest:
		s := src.(*models.ExtraFundsRequest)
		d.Category = s.Category
		d.Justification = s.Justification
		d.ExpectedDuration = s.ExpectedDuration
	case *models.EmergencyRequest:
		s := src.(*models.EmergencyRequest)
		d.EmergencyType = s.EmergencyType
		d.Justification = s.Justification
		d.Timeframe = s.Timeframe
	}
}
