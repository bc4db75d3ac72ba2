package handlers

import (
	"net/http"
	"strconv"

	"college-payroll/internal/apperrors"
	"college-payroll/internal/services"

	"github.com/gin-gonic/gin"
)

var statusByCode = map[apperrors.ErrorCode]int{
	apperrors.CodeValidation:        http.StatusBadRequest,
	apperrors.CodeNotFound:          http.StatusNotFound,
	apperrors.CodeConflict:          http.StatusConflict,
	apperrors.CodeStale:             http.StatusConflict,
	apperrors.CodeInvalidTransition: http.StatusConflict,
	apperrors.CodeTimeout:           http.StatusGatewayTimeout,
	apperrors.CodeStore:             http.StatusInternalServerError,
}

// respondError writes err using the taxonomy's status code. Store failures
// only expose a generic message.
func respondError(c *gin.Context, err error) {
	code := apperrors.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	body := gin.H{"error": services.PublicMessage(err), "code": code}
	if appErr := apperrors.Get(err); appErr != nil && appErr.Field != "" {
		body["field"] = appErr.Field
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message, "code": apperrors.CodeValidation})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "Invalid payroll id")
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
