package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"college-payroll/internal/apperrors"
	"college-payroll/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PayrollStore persists payroll records through gorm.
type PayrollStore struct {
	db *gorm.DB
}

func NewPayrollStore(db *gorm.DB) *PayrollStore {
	return &PayrollStore{db: db}
}

// Create inserts rec and fills in its id and timestamps. A second record for
// the same faculty and pay month violates idx_payroll_faculty_month.
func (s *PayrollStore) Create(ctx context.Context, rec *models.PayrollRecord) error {
	if rec.Version == 0 {
		rec.Version = 1
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return translate(err, "failed to create payroll")
	}
	return nil
}

func (s *PayrollStore) GetByID(ctx context.Context, id uint) (*models.PayrollRecord, error) {
	var rec models.PayrollRecord
	if err := s.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("payroll %d not found", id))
	}
	return &rec, nil
}

func (s *PayrollStore) GetByFacultyAndMonth(ctx context.Context, facultyID string, payMonth time.Time) (*models.PayrollRecord, error) {
	var rec models.PayrollRecord
	err := s.db.WithContext(ctx).
		Where("faculty_id = ? AND pay_month = ?", facultyID, payMonth).
		First(&rec).Error
	if err != nil {
		return nil, translate(err, fmt.Sprintf("payroll for faculty %s in %s not found", facultyID, payMonth.Format("2006-01")))
	}
	return &rec, nil
}

// List returns one page of records matching filter, newest pay month first,
// along with the total number of matches.
func (s *PayrollStore) List(ctx context.Context, filter models.PayrollFilter, limit, offset int) ([]models.PayrollRecord, int64, error) {
	filtered := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.PayrollRecord{})
		if filter.Status != nil {
			q = q.Where("status = ?", *filter.Status)
		}
		if filter.PayMonth != nil {
			q = q.Where("pay_month = ?", *filter.PayMonth)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, translate(err, "failed to count payrolls")
	}

	var recs []models.PayrollRecord
	err := filtered().
		Order("pay_month desc, created_at desc, id desc").
		Limit(limit).
		Offset(offset).
		Find(&recs).Error
	if err != nil {
		return nil, 0, translate(err, "failed to list payrolls")
	}
	return recs, total, nil
}

// Update writes changes to record id if its version still equals version, and
// bumps the version. A concurrent writer makes it fail with a stale error.
func (s *PayrollStore) Update(ctx context.Context, id uint, version int, changes models.PayrollChanges) (*models.PayrollRecord, error) {
	values := changeSet(changes)
	values["version"] = gorm.Expr("version + 1")

	res := s.db.WithContext(ctx).
		Model(&models.PayrollRecord{}).
		Where("id = ? AND version = ?", id, version).
		Updates(values)
	if res.Error != nil {
		return nil, translate(res.Error, fmt.Sprintf("failed to update payroll %d", id))
	}
	if res.RowsAffected == 0 {
		// Either the row is gone or someone else bumped the version.
		if _, err := s.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, &apperrors.AppError{
			Code:    apperrors.CodeStale,
			Message: fmt.Sprintf("payroll %d changed since version %d", id, version),
		}
	}
	return s.GetByID(ctx, id)
}

// SoftDelete marks record id as Cancelled. The row stays readable.
func (s *PayrollStore) SoftDelete(ctx context.Context, id uint, version int) (*models.PayrollRecord, error) {
	cancelled := models.StatusCancelled
	return s.Update(ctx, id, version, models.PayrollChanges{Status: &cancelled})
}

type statusRow struct {
	Status    models.PayrollStatus
	Count     int64
	NetSalary decimal.Decimal
}

// SumAndCountByStatus aggregates record counts and net salary per status in
// a single GROUP BY query.
func (s *PayrollStore) SumAndCountByStatus(ctx context.Context) (map[models.PayrollStatus]models.StatusTotals, error) {
	var rows []statusRow
	err := s.db.WithContext(ctx).
		Model(&models.PayrollRecord{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(net_salary), 0) AS net_salary").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "failed to aggregate payrolls")
	}

	totals := make(map[models.PayrollStatus]models.StatusTotals, len(rows))
	for _, r := range rows {
		totals[r.Status] = models.StatusTotals{Count: r.Count, NetSalary: r.NetSalary.Round(2)}
	}
	return totals, nil
}

// SumNetSalaryForMonth totals net salary of the non-cancelled records for payMonth.
func (s *PayrollStore) SumNetSalaryForMonth(ctx context.Context, payMonth time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := s.db.WithContext(ctx).
		Model(&models.PayrollRecord{}).
		Select("COALESCE(SUM(net_salary), 0) AS total").
		Where("pay_month = ? AND status <> ?", payMonth, models.StatusCancelled).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, translate(err, "failed to sum monthly payroll")
	}
	return row.Total.Round(2), nil
}

func changeSet(c models.PayrollChanges) map[string]interface{} {
	values := map[string]interface{}{}
	if c.Role != nil {
		values["role"] = *c.Role
	}
	if c.TotalDays != nil {
		values["total_days"] = *c.TotalDays
	}
	if c.PresentDays != nil {
		values["present_days"] = *c.PresentDays
	}
	if c.AbsentDays != nil {
		values["absent_days"] = *c.AbsentDays
	}
	if c.BasicSalary != nil {
		values["basic_salary"] = *c.BasicSalary
	}
	if c.Deductions != nil {
		values["deductions"] = *c.Deductions
	}
	if c.NetSalary != nil {
		values["net_salary"] = *c.NetSalary
	}
	if c.Status != nil {
		values["status"] = *c.Status
	}
	return values
}

// translate maps driver and gorm errors onto the apperrors taxonomy.
func translate(err error, message string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound(message)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperrors.Timeout(message, err)
	case isUniqueViolation(err):
		return apperrors.Conflict("payroll already exists for this faculty and pay month", err)
	default:
		return apperrors.Store(message, err)
	}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
