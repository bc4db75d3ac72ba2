package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"college-payroll/internal/apperrors"

	"github.com/gin-gonic/gin"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   apperrors.ErrorCode
		wantMsg    string
	}{
		{"validation", apperrors.Validation("role", "role is required"), http.StatusBadRequest, apperrors.CodeValidation, "role is required"},
		{"not found", apperrors.NotFound("payroll record 7 not found"), http.StatusNotFound, apperrors.CodeNotFound, "payroll record 7 not found"},
		{"conflict", apperrors.Conflict("payroll already exists", nil), http.StatusConflict, apperrors.CodeConflict, "payroll already exists"},
		{"transition", apperrors.InvalidTransition("Pending", "Paid"), http.StatusConflict, apperrors.CodeInvalidTransition, ""},
		{"timeout", apperrors.Timeout("get payroll", nil), http.StatusGatewayTimeout, apperrors.CodeTimeout, ""},
		{"store", apperrors.Store("get payroll", errors.New("pq: connection refused")), http.StatusInternalServerError, apperrors.CodeStore, "internal server error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, apperrors.CodeStore, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			respondError(c, tc.err)

			if w.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, w.Code)
			}
			var body map[string]string
			json.Unmarshal(w.Body.Bytes(), &body)
			if body["code"] != string(tc.wantCode) {
				t.Errorf("Expected code %s, got %s", tc.wantCode, body["code"])
			}
			if tc.wantMsg != "" && body["error"] != tc.wantMsg {
				t.Errorf("Expected message %q, got %q", tc.wantMsg, body["error"])
			}
		})
	}

	t.Run("validation names the field", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondError(c, apperrors.Validation("present_days", "present_days must be 0 or greater"))

		var body map[string]string
		json.Unmarshal(w.Body.Bytes(), &body)
		if body["field"] != "present_days" {
			t.Errorf("Expected field present_days, got %q", body["field"])
		}
	})
}

func TestParseID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, raw := range []string{"abc", "0", "-3"} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: raw}}
		if _, ok := parseID(c); ok {
			t.Errorf("Expected id %q to be rejected", raw)
		}
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for id %q, got %d", raw, w.Code)
		}
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	if id, ok := parseID(c); !ok || id != 42 {
		t.Errorf("Expected id 42, got %d (ok=%v)", id, ok)
	}
}
