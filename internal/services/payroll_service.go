package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"college-payroll/internal/apperrors"
	"college-payroll/internal/logger"
	"college-payroll/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayrollStore is the persistence surface the payroll engine depends on.
// Implementations report failures as *apperrors.AppError.
type PayrollStore interface {
	Create(ctx context.Context, rec *models.PayrollRecord) error
	GetByID(ctx context.Context, id uint) (*models.PayrollRecord, error)
	GetByFacultyAndMonth(ctx context.Context, facultyID string, payMonth time.Time) (*models.PayrollRecord, error)
	List(ctx context.Context, filter models.PayrollFilter, limit, offset int) ([]models.PayrollRecord, int64, error)
	// Update applies changes only if the stored version equals version.
	Update(ctx context.Context, id uint, version int, changes models.PayrollChanges) (*models.PayrollRecord, error)
	SoftDelete(ctx context.Context, id uint, version int) (*models.PayrollRecord, error)
	SumAndCountByStatus(ctx context.Context) (map[models.PayrollStatus]models.StatusTotals, error)
	SumNetSalaryForMonth(ctx context.Context, payMonth time.Time) (decimal.Decimal, error)
}

// AuditTrail persists and lists audit entries.
type AuditTrail interface {
	Record(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, payrollID uint, limit int) ([]models.AuditLog, error)
}

// StatsCache caches dashboard statistics. Set must drop the value when the
// cache was invalidated after gen was read.
type StatsCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, target interface{}) (bool, error)
	Set(ctx context.Context, gen int64, value interface{}) error
	Invalidate(ctx context.Context) error
}

// Options configures a PayrollService. Zero values get sensible defaults.
type Options struct {
	Policy        TransitionPolicy
	BulkWorkers   int
	StoreTimeout  time.Duration
	UpdateRetries int

	Audit  AuditTrail
	Cache  StatsCache
	Logger logger.Logger
	Now    func() time.Time
}

// PayrollService computes payroll records and drives them through their
// lifecycle on top of a PayrollStore.
type PayrollService struct {
	store   PayrollStore
	audit   AuditTrail
	cache   StatsCache
	log     logger.Logger
	policy  TransitionPolicy
	workers int
	timeout time.Duration
	retries int
	now     func() time.Time
}

func NewPayrollService(store PayrollStore, opts Options) *PayrollService {
	s := &PayrollService{
		store:   store,
		audit:   opts.Audit,
		cache:   opts.Cache,
		log:     opts.Logger,
		policy:  opts.Policy,
		workers: opts.BulkWorkers,
		timeout: opts.StoreTimeout,
		retries: opts.UpdateRetries,
		now:     opts.Now,
	}
	if s.log == nil {
		s.log = logger.Nop{}
	}
	if s.workers < 1 {
		s.workers = 1
	}
	if s.timeout <= 0 {
		s.timeout = 5 * time.Second
	}
	if s.retries < 0 {
		s.retries = 0
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// call runs one store round-trip under the configured deadline.
func (s *PayrollService) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := fn(callCtx)
	if err == nil {
		return nil
	}
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, apperrors.ErrTimeout) {
		err = apperrors.Timeout(op+" timed out", err)
	}
	if apperrors.Get(err) == nil {
		err = apperrors.Store(op+" failed", err)
	}
	switch apperrors.CodeOf(err) {
	case apperrors.CodeStore:
		s.log.Error("%s: %v", op, err)
	case apperrors.CodeTimeout:
		s.log.Error("%s: store did not respond within %s: %v", op, s.timeout, err)
	}
	return err
}

// Create validates in, computes the derived fields and persists a Pending record.
func (s *PayrollService) Create(ctx context.Context, in CreatePayrollInput) (*models.PayrollRecord, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	facultyID := strings.TrimSpace(*in.FacultyID)
	role := strings.TrimSpace(*in.Role)
	if facultyID == "" {
		return nil, apperrors.Validation("faculty_id", "faculty_id is required")
	}
	if role == "" {
		return nil, apperrors.Validation("role", "role is required")
	}
	payMonth, err := ParsePayMonth(*in.PayMonth)
	if err != nil {
		return nil, err
	}
	if err := checkAttendance(*in.BasicSalary, *in.TotalDays, *in.PresentDays); err != nil {
		return nil, err
	}

	err = s.call(ctx, "lookup payroll", func(ctx context.Context) error {
		_, err := s.store.GetByFacultyAndMonth(ctx, facultyID, payMonth)
		return err
	})
	switch {
	case err == nil:
		return nil, apperrors.Conflict(fmt.Sprintf("payroll for faculty %s in %s already exists", facultyID, payMonth.Format("2006-01")), nil)
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}

	b := Compute(*in.BasicSalary, *in.TotalDays, *in.PresentDays)
	rec := &models.PayrollRecord{
		FacultyID:   facultyID,
		PayMonth:    payMonth,
		Role:        role,
		TotalDays:   b.TotalDays,
		PresentDays: b.PresentDays,
		AbsentDays:  b.AbsentDays,
		BasicSalary: b.BasicSalary,
		Deductions:  b.Deductions,
		NetSalary:   b.NetSalary,
		Status:      models.StatusPending,
	}
	if err := s.call(ctx, "create payroll", func(ctx context.Context) error {
		return s.store.Create(ctx, rec)
	}); err != nil {
		return nil, err
	}

	s.log.Info("Created payroll %d for faculty %s (%s), net %s", rec.ID, rec.FacultyID, payMonth.Format("2006-01"), rec.NetSalary)
	s.recordAudit(ctx, rec.ID, "CREATED", "", rec.Status,
		fmt.Sprintf("Created payroll for faculty %s, pay month %s.", rec.FacultyID, payMonth.Format("2006-01")))
	s.invalidateStats(ctx)
	return rec, nil
}

func (s *PayrollService) Get(ctx context.Context, id uint) (*models.PayrollRecord, error) {
	var rec *models.PayrollRecord
	err := s.call(ctx, "get payroll", func(ctx context.Context) error {
		var err error
		rec, err = s.store.GetByID(ctx, id)
		return err
	})
	return rec, err
}

func (s *PayrollService) GetByFacultyAndMonth(ctx context.Context, facultyID, payMonth string) (*models.PayrollRecord, error) {
	month, err := ParsePayMonth(payMonth)
	if err != nil {
		return nil, err
	}
	var rec *models.PayrollRecord
	err = s.call(ctx, "get payroll by faculty", func(ctx context.Context) error {
		var err error
		rec, err = s.store.GetByFacultyAndMonth(ctx, facultyID, month)
		return err
	})
	return rec, err
}

// ListResult is one page of payroll records.
type ListResult struct {
	Data  []models.PayrollRecord
	Page  int
	Limit int
	Total int64
	Pages int64
}

func (s *PayrollService) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageLimit
	}
	if q.Limit > maxPageLimit {
		q.Limit = maxPageLimit
	}
	filter := models.PayrollFilter{Status: q.Status, PayMonth: q.PayMonth}

	var (
		recs  []models.PayrollRecord
		total int64
	)
	err := s.call(ctx, "list payrolls", func(ctx context.Context) error {
		var err error
		recs, total, err = s.store.List(ctx, filter, q.Limit, (q.Page-1)*q.Limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []models.PayrollRecord{}
	}
	pages := (total + int64(q.Limit) - 1) / int64(q.Limit)
	return &ListResult{Data: recs, Page: q.Page, Limit: q.Limit, Total: total, Pages: pages}, nil
}

// Update merges patch onto the stored record. When salary or attendance
// fields change, absent days, deductions and net salary are recomputed.
func (s *PayrollService) Update(ctx context.Context, id uint, patch PayrollPatch) (*models.PayrollRecord, error) {
	if err := validateStruct(patch); err != nil {
		return nil, err
	}
	if patch.empty() {
		return nil, apperrors.Validation("", "no updatable fields supplied")
	}

	before, after, err := s.mutate(ctx, id, func(cur *models.PayrollRecord) (models.PayrollChanges, error) {
		return s.applyPatch(cur, patch)
	}, s.updateWrite)
	if err != nil {
		return nil, err
	}

	action := "UPDATED"
	if before.Status != after.Status {
		action = transitionActions[after.Status]
	}
	details := fmt.Sprintf("Updated payroll; net salary %s -> %s.", before.NetSalary, after.NetSalary)
	s.log.Info("Payroll %d updated: %s", id, details)
	s.recordAudit(ctx, id, action, before.Status, after.Status, details)
	s.invalidateStats(ctx)
	return after, nil
}

func (s *PayrollService) applyPatch(cur *models.PayrollRecord, p PayrollPatch) (models.PayrollChanges, error) {
	var ch models.PayrollChanges
	if p.Role != nil {
		role := strings.TrimSpace(*p.Role)
		if role == "" {
			return ch, apperrors.Validation("role", "role is required")
		}
		ch.Role = &role
	}
	if p.Status != nil && *p.Status != cur.Status {
		if err := s.policy.Check(cur.Status, *p.Status); err != nil {
			return ch, err
		}
		st := *p.Status
		ch.Status = &st
	}
	if !p.Recalculates() {
		return ch, nil
	}
	if frozen(cur.Status) {
		return ch, apperrors.Conflict(fmt.Sprintf("payroll is %s and can no longer be recalculated", cur.Status), nil)
	}
	if ch.Status != nil && frozen(*ch.Status) {
		return ch, apperrors.Conflict(fmt.Sprintf("payroll cannot be recalculated while moving to %s", *ch.Status), nil)
	}

	basic := cur.BasicSalary
	if p.BasicSalary != nil {
		basic = *p.BasicSalary
	}
	total := cur.TotalDays
	if p.TotalDays != nil {
		total = *p.TotalDays
	}
	present := cur.PresentDays
	switch {
	case p.PresentDays != nil:
		present = *p.PresentDays
		if p.AbsentDays != nil && total-*p.AbsentDays != present {
			return ch, apperrors.Validation("absent_days", "absent_days must equal total_days - present_days")
		}
	case p.AbsentDays != nil:
		present = total - *p.AbsentDays
	}
	if err := checkAttendance(basic, total, present); err != nil {
		return ch, err
	}

	b := Compute(basic, total, present)
	ch.BasicSalary = &b.BasicSalary
	ch.TotalDays = &b.TotalDays
	ch.PresentDays = &b.PresentDays
	ch.AbsentDays = &b.AbsentDays
	ch.Deductions = &b.Deductions
	ch.NetSalary = &b.NetSalary
	return ch, nil
}

type writeFunc func(ctx context.Context, id uint, version int, changes models.PayrollChanges) (*models.PayrollRecord, error)

func (s *PayrollService) updateWrite(ctx context.Context, id uint, version int, changes models.PayrollChanges) (*models.PayrollRecord, error) {
	return s.store.Update(ctx, id, version, changes)
}

// mutate is the read-modify-write loop behind every change. The write is
// conditioned on the version that was read; a concurrent change makes it
// re-read and re-apply, up to the configured number of retries.
func (s *PayrollService) mutate(ctx context.Context, id uint, apply func(cur *models.PayrollRecord) (models.PayrollChanges, error), write writeFunc) (*models.PayrollRecord, *models.PayrollRecord, error) {
	for attempt := 0; ; attempt++ {
		cur, err := s.Get(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		changes, err := apply(cur)
		if err != nil {
			return nil, nil, err
		}

		var updated *models.PayrollRecord
		err = s.call(ctx, "update payroll", func(ctx context.Context) error {
			var err error
			updated, err = write(ctx, id, cur.Version, changes)
			return err
		})
		if err == nil {
			return cur, updated, nil
		}
		if !errors.Is(err, apperrors.ErrStale) || attempt >= s.retries {
			return nil, nil, err
		}

		s.log.Debug("Payroll %d changed concurrently, retrying (attempt %d)", id, attempt+1)
		select {
		case <-ctx.Done():
			return nil, nil, apperrors.Timeout("update payroll cancelled", ctx.Err())
		case <-time.After(time.Duration(attempt+1) * 10 * time.Millisecond):
		}
	}
}

// Preview runs the calculator without persisting anything.
func (s *PayrollService) Preview(in CalculateInput) (Breakdown, error) {
	if err := validateStruct(in); err != nil {
		return Breakdown{}, err
	}
	if err := checkAttendance(*in.BasicSalary, *in.TotalDays, *in.PresentDays); err != nil {
		return Breakdown{}, err
	}
	return Compute(*in.BasicSalary, *in.TotalDays, *in.PresentDays), nil
}

// Payslip is a document view generated on demand from a record. It is not stored.
type Payslip struct {
	PayslipID   string                `json:"payslip_id"`
	GeneratedAt time.Time             `json:"generated_at"`
	PayMonth    string                `json:"pay_month"`
	Payroll     *models.PayrollRecord `json:"payroll"`
	Breakdown   Breakdown             `json:"breakdown"`
}

func (s *PayrollService) Payslip(ctx context.Context, id uint) (*Payslip, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Payslip{
		PayslipID:   uuid.New().String(),
		GeneratedAt: s.now().UTC(),
		PayMonth:    rec.PayMonth.Format("January 2006"),
		Payroll:     rec,
		Breakdown:   Compute(rec.BasicSalary, rec.TotalDays, rec.PresentDays),
	}, nil
}

// PublicMessage is the text a caller may see for err. Store failures are
// reduced to a generic message; their detail stays in the logs.
func PublicMessage(err error) string {
	appErr := apperrors.Get(err)
	if appErr == nil || appErr.Code == apperrors.CodeStore {
		return "internal server error"
	}
	return appErr.Message
}
