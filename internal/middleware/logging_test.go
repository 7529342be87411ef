package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

// captureLogEntry はミドルウェアを通してリクエストを実行し、
// 出力された1行のJSONログをデコードして返す。
func captureLogEntry(t *testing.T, req *http.Request, inner http.Handler) map[string]interface{} {
	t.Helper()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	handler := NewLoggingMiddleware(logger)(inner)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON log: %v\nraw: %s", err, buf.String())
	}
	return entry
}

func TestLoggingMiddleware_LogsRequestFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/vehicles", nil)
	entry := captureLogEntry(t, req, okHandler())

	if entry["method"] != "GET" {
		t.Errorf("method = %q, want %q", entry["method"], "GET")
	}
	if entry["path"] != "/api/vehicles" {
		t.Errorf("path = %q, want %q", entry["path"], "/api/vehicles")
	}
	if status, ok := entry["status"].(float64); !ok || status != 200 {
		t.Errorf("status = %v, want 200", entry["status"])
	}
	duration, ok := entry["duration_ms"].(float64)
	if !ok {
		t.Fatal("expected 'duration_ms' field in log entry")
	}
	if duration < 0 {
		t.Errorf("duration_ms = %v, should be >= 0", duration)
	}
}

func TestLoggingMiddleware_AuthedRequest_IncludesUserID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/vehicles/vehicle-1/records", nil)
	req = req.WithContext(ContextWithUserID(req.Context(), "user-123"))
	entry := captureLogEntry(t, req, okHandler())

	if entry["user_id"] != "user-123" {
		t.Errorf("user_id = %q, want %q", entry["user_id"], "user-123")
	}
}

func TestLoggingMiddleware_UnauthenticatedRequest_OmitsUserID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	entry := captureLogEntry(t, req, okHandler())

	if val, ok := entry["user_id"]; ok && val != "" {
		t.Errorf("user_id should be absent for unauthenticated request, got %q", val)
	}
}

// ステータスコードに応じてログレベルが変わることを検証する。
func TestLoggingMiddleware_LevelFollowsStatusCode(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"200はINFO", http.StatusOK, "INFO"},
		{"201はINFO", http.StatusCreated, "INFO"},
		{"401はWARN", http.StatusUnauthorized, "WARN"},
		{"404はWARN", http.StatusNotFound, "WARN"},
		{"429はWARN", http.StatusTooManyRequests, "WARN"},
		{"500はERROR", http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/vehicles", nil)
			entry := captureLogEntry(t, req, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			if status := int(entry["status"].(float64)); status != tt.status {
				t.Errorf("status = %d, want %d", status, tt.status)
			}
			if entry["level"] != tt.wantLevel {
				t.Errorf("level = %q, want %q", entry["level"], tt.wantLevel)
			}
		})
	}
}

func TestLoggingMiddleware_ImplicitWriteHeader_Records200(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	entry := captureLogEntry(t, req, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// WriteHeaderを呼ばずにWriteすると暗黙的に200が確定する
		w.Write([]byte(`{"status":"ok"}`))
	}))

	if status := int(entry["status"].(float64)); status != 200 {
		t.Errorf("status = %d, want 200", status)
	}
}
