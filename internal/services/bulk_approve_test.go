package services_test

import (
	"context"
	"testing"

	"college-payroll/internal/models"
	"college-payroll/internal/services"
)

func TestBulkApprove(t *testing.T) {
	ctx := context.Background()

	t.Run("one missing id does not stop the batch", func(t *testing.T) {
		cleanDB()
		svc := newService(services.Options{})
		rec := mustCreate(t, svc, "FAC-70", "2025-06", "30000", 30, 30)
		missing := rec.ID + 1000

		res := svc.BulkApprove(ctx, []uint{rec.ID, missing})
		if res.SuccessCount() != 1 || res.ErrorCount() != 1 {
			t.Fatalf("Expected 1 approved and 1 failed, got %d and %d", res.SuccessCount(), res.ErrorCount())
		}
		if res.Errors[0].ID != missing {
			t.Errorf("Expected the error to reference id %d, got %d", missing, res.Errors[0].ID)
		}
		if res.Updated[0].Status != models.StatusApproved {
			t.Errorf("Expected the valid record to be Approved, got %s", res.Updated[0].Status)
		}
	})

	t.Run("reports results in input order with parallel workers", func(t *testing.T) {
		cleanDB()
		svc := newService(services.Options{BulkWorkers: 4})
		var ids []uint
		for _, f := range []string{"FAC-80", "FAC-81", "FAC-82", "FAC-83", "FAC-84", "FAC-85"} {
			ids = append(ids, mustCreate(t, svc, f, "2025-06", "30000", 30, 30).ID)
		}
		// Already approved records fail the transition check.
		svc.Approve(ctx, ids[2])
		svc.Approve(ctx, ids[4])

		res := svc.BulkApprove(ctx, ids)
		if res.SuccessCount() != 4 || res.ErrorCount() != 2 {
			t.Fatalf("Expected 4 approved and 2 failed, got %d and %d", res.SuccessCount(), res.ErrorCount())
		}
		wantOK := []uint{ids[0], ids[1], ids[3], ids[5]}
		for i, rec := range res.Updated {
			if rec.ID != wantOK[i] {
				t.Errorf("Expected approved record %d at position %d, got %d", wantOK[i], i, rec.ID)
			}
		}
		if res.Errors[0].ID != ids[2] || res.Errors[1].ID != ids[4] {
			t.Errorf("Expected failures for %d and %d, got %+v", ids[2], ids[4], res.Errors)
		}
		if res.Errors[0].Message == "" {
			t.Error("Expected a message on each failure")
		}
	})

	t.Run("empty batch", func(t *testing.T) {
		svc := newService(services.Options{})
		res := svc.BulkApprove(ctx, nil)
		if res.SuccessCount() != 0 || res.ErrorCount() != 0 {
			t.Errorf("Expected an empty result, got %+v", res)
		}
	})
}
