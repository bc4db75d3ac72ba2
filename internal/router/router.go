package router

import (
	"net/http"

	"college-payroll/internal/handlers"
	"college-payroll/internal/logger"
	"college-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRouter initializes the Gin router and defines all API endpoints.
func SetupRouter(payroll *handlers.PayrollHandler, admin *handlers.AdminHandler, log logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	// A simple health check route
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "College Payroll API is running."})
	})

	r.POST("/seed", admin.SeedDatabase)

	adminGroup := r.Group("/admin")
	{
		adminGroup.GET("/audit-logs", admin.GetAuditLogs)
	}

	p := r.Group("/payroll")
	{
		p.GET("", payroll.ListPayrolls)
		p.POST("", payroll.CreatePayroll)
		p.GET("/dashboard", payroll.Dashboard)
		p.POST("/calculate", payroll.Calculate)
		p.POST("/bulk-approve", payroll.BulkApprove)
		p.GET("/faculty/:facultyId/month/:month", payroll.GetPayrollByFacultyMonth)
		p.GET("/payslip/:id", payroll.Payslip)
		p.GET("/:id", payroll.GetPayroll)
		p.PUT("/:id", payroll.UpdatePayroll)
		p.DELETE("/:id", payroll.CancelPayroll)
		p.POST("/:id/approve", payroll.ApprovePayroll)
		p.POST("/:id/pay", payroll.PayPayroll)
	}

	return r
}
