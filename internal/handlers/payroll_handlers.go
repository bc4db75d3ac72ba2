package handlers

import (
	"context"
	"fmt"
	"net/http"

	"college-payroll/internal/models"
	"college-payroll/internal/services"

	"github.com/gin-gonic/gin"
)

// PayrollHandler exposes the payroll engine over HTTP.
type PayrollHandler struct {
	svc *services.PayrollService
}

func NewPayrollHandler(svc *services.PayrollService) *PayrollHandler {
	return &PayrollHandler{svc: svc}
}

// ListPayrolls handles GET /payroll?status=&month=&page=&limit=.
func (h *PayrollHandler) ListPayrolls(c *gin.Context) {
	q := services.ListQuery{
		Page:  queryInt(c, "page", 1),
		Limit: queryInt(c, "limit", 10),
	}
	if s := c.Query("status"); s != "" {
		status, err := services.ParseStatus(s)
		if err != nil {
			respondError(c, err)
			return
		}
		q.Status = &status
	}
	if m := c.Query("month"); m != "" {
		month, err := services.ParsePayMonth(m)
		if err != nil {
			respondError(c, err)
			return
		}
		q.PayMonth = &month
	}

	res, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": res.Data,
		"pagination": gin.H{
			"page":  res.Page,
			"limit": res.Limit,
			"total": res.Total,
			"pages": res.Pages,
		},
	})
}

func (h *PayrollHandler) GetPayroll(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rec, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *PayrollHandler) GetPayrollByFacultyMonth(c *gin.Context) {
	rec, err := h.svc.GetByFacultyAndMonth(c.Request.Context(), c.Param("facultyId"), c.Param("month"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *PayrollHandler) CreatePayroll(c *gin.Context) {
	var input services.CreatePayrollInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	rec, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *PayrollHandler) UpdatePayroll(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var patch services.PayrollPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	rec, err := h.svc.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *PayrollHandler) ApprovePayroll(c *gin.Context) {
	h.transition(c, h.svc.Approve)
}

func (h *PayrollHandler) PayPayroll(c *gin.Context) {
	h.transition(c, h.svc.MarkPaid)
}

// CancelPayroll handles DELETE /payroll/:id. The record is cancelled, not removed.
func (h *PayrollHandler) CancelPayroll(c *gin.Context) {
	h.transition(c, h.svc.Cancel)
}

func (h *PayrollHandler) transition(c *gin.Context, apply func(context.Context, uint) (*models.PayrollRecord, error)) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rec, err := apply(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *PayrollHandler) BulkApprove(c *gin.Context) {
	var input struct {
		PayrollIDs []uint `json:"payroll_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if len(input.PayrollIDs) == 0 {
		badRequest(c, "payroll_ids must not be empty")
		return
	}

	res := h.svc.BulkApprove(c.Request.Context(), input.PayrollIDs)
	c.JSON(http.StatusOK, gin.H{
		"message":         fmt.Sprintf("%d approved, %d failed", res.SuccessCount(), res.ErrorCount()),
		"success_count":   res.SuccessCount(),
		"error_count":     res.ErrorCount(),
		"updated_records": res.Updated,
		"errors":          res.Errors,
	})
}

func (h *PayrollHandler) Dashboard(c *gin.Context) {
	stats, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Calculate handles POST /payroll/calculate, a preview that is never stored.
func (h *PayrollHandler) Calculate(c *gin.Context) {
	var input services.CalculateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	b, err := h.svc.Preview(input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *PayrollHandler) Payslip(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	slip, err := h.svc.Payslip(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slip)
}
