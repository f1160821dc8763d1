package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	return body
}

func TestErrorAttachesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")

	Error(c, CodeBadRequest, "bad")

	if w.Code != http.StatusOK {
		t.Fatalf("business errors use http 200, got %d", w.Code)
	}
	body := decodeEnvelope(t, w)
	if int(body["status_code"].(float64)) != CodeBadRequest {
		t.Fatalf("unexpected status_code: %v", body["status_code"])
	}
	data := body["data"].(map[string]interface{})
	if data["request_id"] != "req-1" {
		t.Fatalf("request id missing: %v", data)
	}
}

func TestConflictCarriesCurrentState(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Conflict(c, "stale", gin.H{"version": 3})

	body := decodeEnvelope(t, w)
	if int(body["status_code"].(float64)) != CodeConflict {
		t.Fatalf("unexpected status_code: %v", body["status_code"])
	}
	data := body["data"].(map[string]interface{})
	if int(data["version"].(float64)) != 3 {
		t.Fatalf("conflict payload lost: %v", data)
	}
}

func TestBuildPagination(t *testing.T) {
	got := BuildPagination(2, 20, 41)
	if got.TotalPage != 3 || got.Page != 2 || got.Total != 41 {
		t.Fatalf("unexpected pagination: %+v", got)
	}
	if empty := BuildPagination(1, 0, 10); empty.TotalPage != 0 {
		t.Fatalf("zero page size should yield zero pages, got %+v", empty)
	}
}
