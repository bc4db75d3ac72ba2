package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"college-payroll/internal/apperrors"
	"college-payroll/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const seedFaculty = 10

var seedRoles = []string{"Professor", "Associate Professor", "Assistant Professor", "Lecturer"}

// SeedDatabase creates demo payroll records for the service's current pay
// month. Faculty that already have a record for the month are skipped.
func (h *AdminHandler) SeedDatabase(c *gin.Context) {
	month := h.svc.CurrentPayMonth()
	created, skipped := 0, 0

	for i := 0; i < seedFaculty; i++ {
		facultyID := fmt.Sprintf("FAC-%03d", i+1)
		role := seedRoles[i%len(seedRoles)]
		basic := decimal.NewFromInt(int64(40000 + i*2500))
		total := 30
		present := total - i%4

		_, err := h.svc.Create(c.Request.Context(), services.CreatePayrollInput{
			FacultyID:   &facultyID,
			PayMonth:    &month,
			BasicSalary: &basic,
			TotalDays:   &total,
			PresentDays: &present,
			Role:        &role,
		})
		switch {
		case err == nil:
			created++
		case errors.Is(err, apperrors.ErrConflict):
			skipped++
		default:
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Database seeded with %d payroll records for %s.", created, month),
		"created": created,
		"skipped": skipped,
	})
}
