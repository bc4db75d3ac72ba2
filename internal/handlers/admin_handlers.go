package handlers

import (
	"net/http"
	"strconv"

	"college-payroll/internal/services"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the operational endpoints: the audit trail and demo seeding.
type AdminHandler struct {
	svc *services.PayrollService
}

func NewAdminHandler(svc *services.PayrollService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// GetAuditLogs retrieves audit log entries, most recent first. An optional
// payroll_id narrows the trail to one record.
func (h *AdminHandler) GetAuditLogs(c *gin.Context) {
	var payrollID uint
	if s := c.Query("payroll_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			badRequest(c, "Invalid payroll_id")
			return
		}
		payrollID = uint(id)
	}

	logs, err := h.svc.AuditLogs(c.Request.Context(), payrollID, queryInt(c, "limit", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
