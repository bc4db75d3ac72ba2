package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BaseModel includes the identity and timestamps every row carries.
type BaseModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PayrollStatus is the lifecycle state of a payroll record.
type PayrollStatus string

const (
	StatusPending   PayrollStatus = "Pending"
	StatusApproved  PayrollStatus = "Approved"
	StatusPaid      PayrollStatus = "Paid"
	StatusCancelled PayrollStatus = "Cancelled"
)

// Statuses lists every status in lifecycle order.
var Statuses = []PayrollStatus{StatusPending, StatusApproved, StatusPaid, StatusCancelled}

func (s PayrollStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// PayrollRecord is one faculty member's computed compensation for a pay month.
// Rows are never deleted; cancellation is a status.
type PayrollRecord struct {
	BaseModel
	FacultyID   string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_payroll_faculty_month,priority:1" json:"faculty_id"`
	PayMonth    time.Time       `gorm:"type:date;not null;uniqueIndex:idx_payroll_faculty_month,priority:2;index" json:"pay_month"`
	Role        string          `gorm:"type:varchar(64);not null" json:"role"`
	TotalDays   int             `gorm:"not null" json:"total_days"`
	PresentDays int             `gorm:"not null" json:"present_days"`
	AbsentDays  int             `gorm:"not null" json:"absent_days"`
	BasicSalary decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"basic_salary"`
	Deductions  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"deductions"`
	NetSalary   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"net_salary"`
	Status      PayrollStatus   `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	Version     int             `gorm:"not null;default:1" json:"version"`
}

// PayrollFilter narrows a List query. Nil fields do not filter.
type PayrollFilter struct {
	Status   *PayrollStatus
	PayMonth *time.Time
}

// PayrollChanges is the set of columns an Update writes. Nil fields are left alone.
type PayrollChanges struct {
	Role        *string
	TotalDays   *int
	PresentDays *int
	AbsentDays  *int
	BasicSalary *decimal.Decimal
	Deductions  *decimal.Decimal
	NetSalary   *decimal.Decimal
	Status      *PayrollStatus
}

// StatusTotals is one row of the per-status aggregate.
type StatusTotals struct {
	Count     int64           `json:"count"`
	NetSalary decimal.Decimal `json:"net_salary"`
}

// AuditLog tracks changes made to payroll records.
type AuditLog struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	PayrollID  uint      `gorm:"index" json:"payroll_id"`
	Action     string    `gorm:"type:varchar(32);not null" json:"action"` // e.g. "CREATED", "APPROVED"
	FromStatus string    `gorm:"type:varchar(20)" json:"from_status,omitempty"`
	ToStatus   string    `gorm:"type:varchar(20)" json:"to_status,omitempty"`
	Details    string    `json:"details"`
	RequestID  string    `gorm:"type:varchar(64)" json:"request_id,omitempty"`
	RequestIP  string    `gorm:"type:varchar(64)" json:"request_ip,omitempty"`
}
