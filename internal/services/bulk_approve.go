package services

import (
	"context"

	"college-payroll/internal/models"

	"golang.org/x/sync/errgroup"
)

// BulkError reports one id that could not be approved.
type BulkError struct {
	ID      uint   `json:"id"`
	Message string `json:"message"`
}

// BulkApproveResult lists approved records and per-id failures, both in the
// order the ids were supplied.
type BulkApproveResult struct {
	Updated []models.PayrollRecord `json:"updated_records"`
	Errors  []BulkError            `json:"errors"`
}

func (r BulkApproveResult) SuccessCount() int { return len(r.Updated) }
func (r BulkApproveResult) ErrorCount() int   { return len(r.Errors) }

// BulkApprove approves every id independently on a bounded pool of workers.
// A failing id is recorded in Errors and never stops the others.
func (s *PayrollService) BulkApprove(ctx context.Context, ids []uint) BulkApproveResult {
	type outcome struct {
		rec *models.PayrollRecord
		err error
	}
	outcomes := make([]outcome, len(ids))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			rec, err := s.Approve(ctx, id)
			outcomes[i] = outcome{rec: rec, err: err}
			return nil
		})
	}
	_ = g.Wait()

	result := BulkApproveResult{
		Updated: make([]models.PayrollRecord, 0, len(ids)),
		Errors:  []BulkError{},
	}
	for i, o := range outcomes {
		if o.err != nil {
			result.Errors = append(result.Errors, BulkError{ID: ids[i], Message: PublicMessage(o.err)})
			continue
		}
		result.Updated = append(result.Updated, *o.rec)
	}

	s.log.Info("Bulk approve finished: %d approved, %d failed", result.SuccessCount(), result.ErrorCount())
	return result
}
