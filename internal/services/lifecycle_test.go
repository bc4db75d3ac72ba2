package services_test

import (
	"context"
	"errors"
	"testing"

	"college-payroll/internal/apperrors"
	"college-payroll/internal/models"
	"college-payroll/internal/services"
)

func TestTransitionPolicy(t *testing.T) {
	cases := []struct {
		from, to        models.PayrollStatus
		allowCancelPaid bool
		want            bool
	}{
		{models.StatusPending, models.StatusApproved, false, true},
		{models.StatusPending, models.StatusCancelled, false, true},
		{models.StatusPending, models.StatusPaid, false, false},
		{models.StatusApproved, models.StatusPaid, false, true},
		{models.StatusApproved, models.StatusCancelled, false, true},
		{models.StatusApproved, models.StatusPending, false, false},
		{models.StatusPaid, models.StatusCancelled, false, false},
		{models.StatusPaid, models.StatusCancelled, true, true},
		{models.StatusPaid, models.StatusApproved, true, false},
		{models.StatusCancelled, models.StatusPending, true, false},
		{models.StatusCancelled, models.StatusApproved, false, false},
	}
	for _, c := range cases {
		p := services.TransitionPolicy{AllowCancelPaid: c.allowCancelPaid}
		if got := p.Allowed(c.from, c.to); got != c.want {
			t.Errorf("%s -> %s (allowCancelPaid=%v): expected %v, got %v", c.from, c.to, c.allowCancelPaid, c.want, got)
		}
	}
}

func TestLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("approve then pay", func(t *testing.T) {
		cleanDB()
		svc := newService(services.Options{})
		rec := mustCreate(t, svc, "FAC-60", "2025-06", "30000", 30, 30)

		approved, err := svc.Approve(ctx, rec.ID)
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if approved.Status != models.StatusApproved {
			t.Errorf("Expected status Approved, got %s", approved.Status)
		}
		if !approved.NetSalary.Equal(rec.NetSalary) {
			t.Errorf("Expected a status change to leave net salary alone, got %s", approved.NetSalary)
		}

		paid, err := svc.MarkPaid(ctx, rec.ID)
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if paid.Status != models.StatusPaid {
			t.Errorf("Expected status Paid, got %s", paid.Status)
		}
	})

	t.Run("disallowed transitions fail", func(t *testing.T) {
		cleanDB()
		svc := newService(services.Options{})
		rec := mustCreate(t, svc, "FAC-61", "2025-06", "30000", 30, 30)

		if _, err := svc.MarkPaid(ctx, rec.ID); !errors.Is(err, apperrors.ErrInvalidTransition) {
			t.Errorf("Expected paying a pending record to fail, got %v", err)
		}
		svc.Approve(ctx, rec.ID)
		if _, err := svc.Approve(ctx, rec.ID); !errors.Is(err, apperrors.ErrInvalidTransition) {
			t.Errorf("Expected a second approval to fail, got %v", err)
		}
		got, _ := svc.Get(ctx, rec.ID)
		if got.Status != models.StatusApproved {
			t.Errorf("Expected status to remain Approved, got %s", got.Status)
		}
	})

	t.Run("cancel keeps the record", func(t *testing.T) {
		cleanDB()
		svc := newService(services.Options{})
		rec := mustCreate(t, svc, "FAC-62", "2025-06", "30000", 30, 30)

		if _, err := svc.Cancel(ctx, rec.ID); err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		got, err := svc.Get(ctx, rec.ID)
		if err != nil {
			t.Fatalf("Expected the cancelled record to remain, got %v", err)
		}
		if got.Status != models.StatusCancelled {
			t.Errorf("Expected status Cancelled, got %s", got.Status)
		}
		if _, err := svc.Approve(ctx, rec.ID); !errors.Is(err, apperrors.ErrInvalidTransition) {
			t.Errorf("Expected a cancelled record to stay cancelled, got %v", err)
		}
	})

	t.Run("cancelling a paid record depends on policy", func(t *testing.T) {
		cleanDB()
		strict := newService(services.Options{})
		rec := mustCreate(t, strict, "FAC-63", "2025-06", "30000", 30, 30)
		strict.Approve(ctx, rec.ID)
		strict.MarkPaid(ctx, rec.ID)

		if _, err := strict.Cancel(ctx, rec.ID); !errors.Is(err, apperrors.ErrInvalidTransition) {
			t.Errorf("Expected Paid -> Cancelled to be refused by default, got %v", err)
		}

		lenient := newService(services.Options{Policy: services.TransitionPolicy{AllowCancelPaid: true}})
		cancelled, err := lenient.Cancel(ctx, rec.ID)
		if err != nil {
			t.Fatalf("Expected Paid -> Cancelled to be allowed, got %v", err)
		}
		if cancelled.Status != models.StatusCancelled {
			t.Errorf("Expected status Cancelled, got %s", cancelled.Status)
		}
	})

	t.Run("missing ids are not found", func(t *testing.T) {
		cleanDB()
		svc := newService(services.Options{})
		if _, err := svc.Approve(ctx, 12345); !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("Expected not found, got %v", err)
		}
		if _, err := svc.Cancel(ctx, 12345); !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("Expected not found, got %v", err)
		}
	})
}
