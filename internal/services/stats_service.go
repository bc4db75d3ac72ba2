package services

import (
	"context"

	"college-payroll/internal/models"

	"github.com/shopspring/decimal"
)

// DashboardStats are the payroll figures shown on the dashboard.
type DashboardStats struct {
	TotalPayrollCost decimal.Decimal `json:"total_payroll_cost"`
	CurrentMonth     string          `json:"current_month"`
	CurrentMonthCost decimal.Decimal `json:"current_month_cost"`
	PendingCount     int64           `json:"pending_count"`
	ApprovedCount    int64           `json:"approved_count"`
	PaidCount        int64           `json:"paid_count"`
	CancelledCount   int64           `json:"cancelled_count"`
	TotalRecords     int64           `json:"total_records"`
}

// Dashboard aggregates the statistics in the store rather than loading rows.
// Results are served from the cache when one is configured.
func (s *PayrollService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	month := FirstOfMonth(s.now())
	monthKey := month.Format("2006-01")

	// The generation is read before aggregating so a write that lands
	// meanwhile keeps this snapshot out of the cache.
	var gen int64
	cacheable := false
	if s.cache != nil {
		var err error
		if gen, err = s.cache.Generation(ctx); err != nil {
			s.log.Error("Dashboard cache generation read failed: %v", err)
		} else {
			cacheable = true
		}

		var cached DashboardStats
		hit, err := s.cache.Get(ctx, &cached)
		if err != nil {
			s.log.Error("Dashboard cache read failed: %v", err)
		} else if hit && cached.CurrentMonth == monthKey {
			return &cached, nil
		}
	}

	var totals map[models.PayrollStatus]models.StatusTotals
	if err := s.call(ctx, "aggregate payrolls", func(ctx context.Context) error {
		var err error
		totals, err = s.store.SumAndCountByStatus(ctx)
		return err
	}); err != nil {
		return nil, err
	}

	var monthCost decimal.Decimal
	if err := s.call(ctx, "sum monthly payroll", func(ctx context.Context) error {
		var err error
		monthCost, err = s.store.SumNetSalaryForMonth(ctx, month)
		return err
	}); err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalPayrollCost: decimal.Zero,
		CurrentMonth:     monthKey,
		CurrentMonthCost: monthCost,
		PendingCount:     totals[models.StatusPending].Count,
		ApprovedCount:    totals[models.StatusApproved].Count,
		PaidCount:        totals[models.StatusPaid].Count,
		CancelledCount:   totals[models.StatusCancelled].Count,
	}
	for status, t := range totals {
		stats.TotalRecords += t.Count
		if status != models.StatusCancelled {
			stats.TotalPayrollCost = stats.TotalPayrollCost.Add(t.NetSalary)
		}
	}

	if cacheable {
		if err := s.cache.Set(ctx, gen, stats); err != nil {
			s.log.Error("Dashboard cache write failed: %v", err)
		}
	}
	return stats, nil
}

// CurrentPayMonth is the pay month, as YYYY-MM, that the service clock is in.
func (s *PayrollService) CurrentPayMonth() string {
	return FirstOfMonth(s.now()).Format("2006-01")
}

func (s *PayrollService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Error("Dashboard cache invalidation failed: %v", err)
	}
}
