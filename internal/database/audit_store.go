package database

import (
	"context"

	"college-payroll/internal/models"

	"gorm.io/gorm"
)

// AuditStore writes and reads the payroll audit trail.
type AuditStore struct {
	db *gorm.DB
}

func NewAuditStore(db *gorm.DB) *AuditStore {
	return &AuditStore{db: db}
}

func (s *AuditStore) Record(ctx context.Context, entry *models.AuditLog) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return translate(err, "failed to write audit log")
	}
	return nil
}

// List returns audit entries, most recent first. A zero payrollID returns
// entries for every record.
func (s *AuditStore) List(ctx context.Context, payrollID uint, limit int) ([]models.AuditLog, error) {
	q := s.db.WithContext(ctx).Order("created_at desc, id desc")
	if payrollID != 0 {
		q = q.Where("payroll_id = ?", payrollID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var logs []models.AuditLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, translate(err, "could not retrieve audit logs")
	}
	return logs, nil
}
