package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/csmc-contest/backend/internal/config"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	cfg := &config.Config{Environment: "test"}
	// nil db/redis: these cases must be rejected before any lookup happens
	router.POST("/registration", RegisterContestant(nil, nil, cfg, nil))
	router.POST("/registration/check", CheckReturningVisitor(nil))
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Message string `json:"message"`
		Code    string `json:"code"`
		Details []struct {
			Field string `json:"field"`
			Issue string `json:"issue"`
		} `json:"details"`
	} `json:"error"`
}

func TestRegisterRejectsInvalidPayload(t *testing.T) {
	router := testRouter()

	w := postJSON(t, router, "/registration", map[string]interface{}{
		"fullName": "x",
		"grade":    12,
		"mobile":   "123",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var body errorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Success {
		t.Error("success should be false")
	}
	if body.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %s, want VALIDATION_ERROR", body.Error.Code)
	}
	if len(body.Error.Details) == 0 {
		t.Error("expected per-field details")
	}

	fields := map[string]bool{}
	for _, d := range body.Error.Details {
		fields[d.Field] = true
	}
	for _, want := range []string{"grade", "mobile", "fullName"} {
		if !fields[want] {
			t.Errorf("missing issue for field %s in %v", want, fields)
		}
	}
}

func TestRegisterRejectsMalformedJSON(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodPost, "/registration", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCheckRejectsMissingFingerprint(t *testing.T) {
	router := testRouter()

	w := postJSON(t, router, "/registration/check", map[string]interface{}{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var body errorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %s, want VALIDATION_ERROR", body.Error.Code)
	}
}
