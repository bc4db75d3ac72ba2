package services

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"college-payroll/internal/apperrors"
	"college-payroll/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// CreatePayrollInput is the body of a create request. Every field is
// required; pointers tell a missing field apart from a zero value.
type CreatePayrollInput struct {
	FacultyID   *string          `json:"faculty_id" validate:"required,min=1"`
	PayMonth    *string          `json:"pay_month" validate:"required,min=1"`
	BasicSalary *decimal.Decimal `json:"basic_salary" validate:"required"`
	TotalDays   *int             `json:"total_days" validate:"required,gte=0"`
	PresentDays *int             `json:"present_days" validate:"required,gte=0"`
	Role        *string          `json:"role" validate:"required,min=1"`
}

// PayrollPatch is a partial update. Deductions and net salary are not
// patchable; they follow from the attendance and salary fields.
type PayrollPatch struct {
	Role        *string               `json:"role" validate:"omitempty,min=1"`
	BasicSalary *decimal.Decimal      `json:"basic_salary"`
	TotalDays   *int                  `json:"total_days" validate:"omitempty,gte=0"`
	PresentDays *int                  `json:"present_days" validate:"omitempty,gte=0"`
	AbsentDays  *int                  `json:"absent_days" validate:"omitempty,gte=0"`
	Status      *models.PayrollStatus `json:"status"`
}

// Recalculates reports whether the patch touches a field that feeds Compute.
func (p PayrollPatch) Recalculates() bool {
	return p.BasicSalary != nil || p.TotalDays != nil || p.PresentDays != nil || p.AbsentDays != nil
}

func (p PayrollPatch) empty() bool {
	return !p.Recalculates() && p.Role == nil && p.Status == nil
}

// CalculateInput is the body of a stateless calculation preview.
type CalculateInput struct {
	BasicSalary *decimal.Decimal `json:"basic_salary" validate:"required"`
	TotalDays   *int             `json:"total_days" validate:"required,gte=0"`
	PresentDays *int             `json:"present_days" validate:"required,gte=0"`
}

// ListQuery selects a page of payroll records.
type ListQuery struct {
	Status   *models.PayrollStatus
	PayMonth *time.Time
	Page     int
	Limit    int
}

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateStruct runs the struct tags and reports the first failing field.
func validateStruct(in interface{}) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return apperrors.Validation("", err.Error())
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required", "min":
		return apperrors.Validation(fe.Field(), fmt.Sprintf("%s is required", fe.Field()))
	case "gte":
		return apperrors.Validation(fe.Field(), fmt.Sprintf("%s must be %s or greater", fe.Field(), fe.Param()))
	default:
		return apperrors.Validation(fe.Field(), fmt.Sprintf("%s is invalid", fe.Field()))
	}
}

// checkAttendance enforces the bounds the calculator itself does not.
func checkAttendance(basicSalary decimal.Decimal, totalDays, presentDays int) error {
	switch {
	case basicSalary.IsNegative():
		return apperrors.Validation("basic_salary", "basic_salary must be 0 or greater")
	case totalDays < 0:
		return apperrors.Validation("total_days", "total_days must be 0 or greater")
	case presentDays < 0:
		return apperrors.Validation("present_days", "present_days must be 0 or greater")
	case presentDays > totalDays:
		return apperrors.Validation("present_days", "present_days cannot exceed total_days")
	}
	return nil
}

// ParsePayMonth accepts "2006-01" or "2006-01-02" and returns the first day
// of that month in UTC.
func ParsePayMonth(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return FirstOfMonth(t), nil
		}
	}
	return time.Time{}, apperrors.Validation("pay_month", "pay_month must be YYYY-MM or YYYY-MM-DD")
}

// FirstOfMonth normalizes t to midnight UTC on the first of its month.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ParseStatus matches a status name case-insensitively.
func ParseStatus(s string) (models.PayrollStatus, error) {
	for _, st := range models.Statuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", apperrors.Validation("status", fmt.Sprintf("unknown status %q", s))
}
