package services

import (
	"context"
	"fmt"

	"college-payroll/internal/apperrors"
	"college-payroll/internal/models"
)

var transitions = map[models.PayrollStatus][]models.PayrollStatus{
	models.StatusPending:   {models.StatusApproved, models.StatusCancelled},
	models.StatusApproved:  {models.StatusPaid, models.StatusCancelled},
	models.StatusPaid:      {},
	models.StatusCancelled: {},
}

// transitionActions names the audit action recorded for entering a status.
var transitionActions = map[models.PayrollStatus]string{
	models.StatusApproved:  "APPROVED",
	models.StatusPaid:      "PAID",
	models.StatusCancelled: "CANCELLED",
}

// frozen reports whether a record in st keeps its figures as they are.
func frozen(st models.PayrollStatus) bool {
	return st == models.StatusPaid || st == models.StatusCancelled
}

// TransitionPolicy decides which status changes are allowed.
type TransitionPolicy struct {
	// AllowCancelPaid additionally permits Paid -> Cancelled.
	AllowCancelPaid bool
}

func (p TransitionPolicy) Allowed(from, to models.PayrollStatus) bool {
	if from == models.StatusPaid && to == models.StatusCancelled {
		return p.AllowCancelPaid
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (p TransitionPolicy) Check(from, to models.PayrollStatus) error {
	if !to.Valid() {
		return apperrors.Validation("status", fmt.Sprintf("unknown status %q", to))
	}
	if !p.Allowed(from, to) {
		return apperrors.InvalidTransition(string(from), string(to))
	}
	return nil
}

// Approve moves a Pending record to Approved.
func (s *PayrollService) Approve(ctx context.Context, id uint) (*models.PayrollRecord, error) {
	return s.transition(ctx, id, models.StatusApproved, transitionActions[models.StatusApproved], s.updateWrite)
}

// MarkPaid moves an Approved record to Paid.
func (s *PayrollService) MarkPaid(ctx context.Context, id uint) (*models.PayrollRecord, error) {
	return s.transition(ctx, id, models.StatusPaid, transitionActions[models.StatusPaid], s.updateWrite)
}

// Cancel soft-deletes a record by moving it to Cancelled. The row stays
// retrievable by id.
func (s *PayrollService) Cancel(ctx context.Context, id uint) (*models.PayrollRecord, error) {
	return s.transition(ctx, id, models.StatusCancelled, transitionActions[models.StatusCancelled],
		func(ctx context.Context, id uint, version int, _ models.PayrollChanges) (*models.PayrollRecord, error) {
			return s.store.SoftDelete(ctx, id, version)
		})
}

func (s *PayrollService) transition(ctx context.Context, id uint, to models.PayrollStatus, action string, write writeFunc) (*models.PayrollRecord, error) {
	before, after, err := s.mutate(ctx, id, func(cur *models.PayrollRecord) (models.PayrollChanges, error) {
		if err := s.policy.Check(cur.Status, to); err != nil {
			return models.PayrollChanges{}, err
		}
		return models.PayrollChanges{Status: &to}, nil
	}, write)
	if err != nil {
		return nil, err
	}

	s.log.Info("Payroll %d moved from %s to %s", id, before.Status, after.Status)
	s.recordAudit(ctx, id, action, before.Status, after.Status, "")
	s.invalidateStats(ctx)
	return after, nil
}
