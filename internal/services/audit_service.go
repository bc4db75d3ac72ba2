package services

import (
	"context"

	"college-payroll/internal/models"
)

// RequestMeta identifies the request that caused a change.
type RequestMeta struct {
	RequestID string
	IP        string
}

type requestMetaKey struct{}

// WithRequestMeta attaches request identity to ctx for the audit trail.
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

func requestMetaFrom(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta
}

// recordAudit writes an entry to the audit trail. A failed write is logged
// and does not fail the operation that caused it.
func (s *PayrollService) recordAudit(ctx context.Context, payrollID uint, action string, from, to models.PayrollStatus, details string) {
	if s.audit == nil {
		return
	}
	meta := requestMetaFrom(ctx)
	entry := &models.AuditLog{
		PayrollID:  payrollID,
		Action:     action,
		FromStatus: string(from),
		ToStatus:   string(to),
		Details:    details,
		RequestID:  meta.RequestID,
		RequestIP:  meta.IP,
	}
	if err := s.call(ctx, "write audit log", func(ctx context.Context) error {
		return s.audit.Record(ctx, entry)
	}); err != nil {
		s.log.Error("Audit entry %s for payroll %d was not saved: %v", action, payrollID, err)
	}
}

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 500
)

// AuditLogs lists the audit trail, most recent first. A zero payrollID
// lists every record's entries. limit is clamped to [1, 500]; anything
// below 1 means the default of 100.
func (s *PayrollService) AuditLogs(ctx context.Context, payrollID uint, limit int) ([]models.AuditLog, error) {
	if s.audit == nil {
		return []models.AuditLog{}, nil
	}
	if limit < 1 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	var logs []models.AuditLog
	err := s.call(ctx, "list audit logs", func(ctx context.Context) error {
		var err error
		logs, err = s.audit.List(ctx, payrollID, limit)
		return err
	})
	if logs == nil && err == nil {
		logs = []models.AuditLog{}
	}
	return logs, err
}
