package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"alarma-iot/backend/internal/dto"
	"alarma-iot/backend/internal/service"
	apperrors "alarma-iot/backend/pkg/errors"
	"alarma-iot/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AlarmService ──

type mockAlarmService struct {
	setResult    *dto.SetAlarmResponse
	setErr       error
	updateResult *dto.UpdateAlarmResponse
	updateErr    error
	cancelResult *dto.CancelAlarmResponse
	cancelErr    error

	setReq    *dto.SetAlarmRequest
	updateReq *dto.UpdateAlarmRequest
}

func (m *mockAlarmService) Set(_ context.Context, req *dto.SetAlarmRequest) (*dto.SetAlarmResponse, error) {
	m.setReq = req
	return m.setResult, m.setErr
}
func (m *mockAlarmService) Update(_ context.Context, req *dto.UpdateAlarmRequest) (*dto.UpdateAlarmResponse, error) {
	m.updateReq = req
	return m.updateResult, m.updateErr
}
func (m *mockAlarmService) CancelAll(_ context.Context) (*dto.CancelAlarmResponse, error) {
	return m.cancelResult, m.cancelErr
}

// ── Mock StatusService ──

type mockStatusService struct {
	result *dto.AlarmStatusResponse
	err    error
}

func (m *mockStatusService) GetStatus(_ context.Context) (*dto.AlarmStatusResponse, error) {
	return m.result, m.err
}

// ── Mock CommandService ──

type mockCommandService struct {
	result  *dto.CommandResponse
	err     error
	command string
	calls   int
}

func (m *mockCommandService) Send(_ context.Context, command string) (*dto.CommandResponse, error) {
	m.calls++
	m.command = command
	return m.result, m.err
}

// ── Mock HealthService ──

type mockHealthService struct {
	result *dto.HealthResponse
	ok     bool
}

func (m *mockHealthService) Check(_ context.Context) (*dto.HealthResponse, bool) {
	return m.result, m.ok
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseError(w *httptest.ResponseRecorder) response.ErrorBody {
	var resp response.ErrorBody
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func serve(method, path string, body io.Reader, register func(r *gin.Engine)) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	register(r)
	r.ServeHTTP(w, req)
	return w
}

// ═══════════════════════════════════════════════════════════
// AlarmHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAlarmHandler_SetAlarm_Success(t *testing.T) {
	mock := &mockAlarmService{setResult: &dto.SetAlarmResponse{
		Message: "闹钟设置成功！", ID: 7, Scheduled: "闹钟已设定在 07:05",
	}}
	h := NewAlarmHandler(mock, &mockStatusService{})

	w := serve("POST", "/alarma/set", jsonBody(map[string]int{"hour": 7, "minutes": 5}), func(r *gin.Engine) {
		r.POST("/alarma/set", h.SetAlarm)
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	var resp dto.SetAlarmResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.ID != 7 || resp.Scheduled == "" || resp.Message == "" {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
	if *mock.setReq.Hour != 7 || *mock.setReq.Minutes != 5 {
		t.Errorf("request not forwarded: %+v", mock.setReq)
	}
}

func TestAlarmHandler_SetAlarm_ZeroValuesAccepted(t *testing.T) {
	mock := &mockAlarmService{setResult: &dto.SetAlarmResponse{ID: 1}}
	h := NewAlarmHandler(mock, &mockStatusService{})

	w := serve("POST", "/alarma/set", jsonBody(map[string]int{"hour": 0, "minutes": 0}), func(r *gin.Engine) {
		r.POST("/alarma/set", h.SetAlarm)
	})

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201 for 00:00, got %d", w.Code)
	}
}

func TestAlarmHandler_SetAlarm_BadInput(t *testing.T) {
	bodies := []string{
		`{"hour": 7}`,
		`{"minutes": 5}`,
		`{"hour": "seven", "minutes": 5}`,
		`{"hour": 7.5, "minutes": 5}`,
		`not json`,
	}

	for _, body := range bodies {
		mock := &mockAlarmService{}
		h := NewAlarmHandler(mock, &mockStatusService{})

		w := serve("POST", "/alarma/set", bytes.NewReader([]byte(body)), func(r *gin.Engine) {
			r.POST("/alarma/set", h.SetAlarm)
		})

		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, w.Code)
		}
		if mock.setReq != nil {
			t.Errorf("body %s: service should not be called", body)
		}
		if parseError(w).Error == "" {
			t.Errorf("body %s: expected error message", body)
		}
	}
}

func TestAlarmHandler_SetAlarm_ServiceErrors(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
	}{
		{service.ErrAlarmTimeInvalid, http.StatusBadRequest},
		{service.ErrAlarmFieldsMissing, http.StatusBadRequest},
		{fmt.Errorf("%w: %w", apperrors.ErrStore, errors.New("connection refused")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		mock := &mockAlarmService{setErr: tt.err}
		h := NewAlarmHandler(mock, &mockStatusService{})

		w := serve("POST", "/alarma/set", jsonBody(map[string]int{"hour": 24, "minutes": 0}), func(r *gin.Engine) {
			r.POST("/alarma/set", h.SetAlarm)
		})

		if w.Code != tt.wantCode {
			t.Errorf("err %v: expected %d, got %d", tt.err, tt.wantCode, w.Code)
		}
		if bytes.Contains(w.Body.Bytes(), []byte("connection refused")) {
			t.Error("internal error details must not leak")
		}
	}
}

func TestAlarmHandler_GetStatus(t *testing.T) {
	for _, state := range []string{"none", "inactive", "active"} {
		mock := &mockStatusService{result: &dto.AlarmStatusResponse{State: state, Message: "msg"}}
		h := NewAlarmHandler(&mockAlarmService{}, mock)

		w := serve("GET", "/alarma/status", nil, func(r *gin.Engine) {
			r.GET("/alarma/status", h.GetStatus)
		})

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp dto.AlarmStatusResponse
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		if resp.State != state {
			t.Errorf("expected state %s, got %s", state, resp.State)
		}
	}
}

func TestAlarmHandler_GetStatus_Errors(t *testing.T) {
	for _, err := range []error{apperrors.ErrDataIntegrity, apperrors.ErrStore} {
		h := NewAlarmHandler(&mockAlarmService{}, &mockStatusService{err: err})

		w := serve("GET", "/alarma/status", nil, func(r *gin.Engine) {
			r.GET("/alarma/status", h.GetStatus)
		})

		if w.Code != http.StatusInternalServerError {
			t.Errorf("err %v: expected 500, got %d", err, w.Code)
		}
	}
}

func TestAlarmHandler_CancelAlarms(t *testing.T) {
	mock := &mockAlarmService{cancelResult: &dto.CancelAlarmResponse{Message: "ok", Deleted: 2}}
	h := NewAlarmHandler(mock, &mockStatusService{})

	w := serve("GET", "/alarma/cancel", nil, func(r *gin.Engine) {
		r.GET("/alarma/cancel", h.CancelAlarms)
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp dto.CancelAlarmResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Deleted != 2 || resp.Message == "" {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestAlarmHandler_CancelAlarms_StoreError(t *testing.T) {
	mock := &mockAlarmService{cancelErr: apperrors.ErrStore}
	h := NewAlarmHandler(mock, &mockStatusService{})

	w := serve("GET", "/alarma/cancel", nil, func(r *gin.Engine) {
		r.GET("/alarma/cancel", h.CancelAlarms)
	})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestAlarmHandler_UpdateAlarm(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
	}{
		{"success", `{"id": 3, "hour": 9, "minutes": 5}`, nil, http.StatusOK},
		{"missing id", `{"hour": 9, "minutes": 5}`, nil, http.StatusBadRequest},
		{"string id", `{"id": "abc", "hour": 9, "minutes": 5}`, nil, http.StatusBadRequest},
		{"invalid id", `{"id": 0, "hour": 9, "minutes": 5}`, service.ErrAlarmIDInvalid, http.StatusBadRequest},
		{"out of range", `{"id": 3, "hour": 9, "minutes": 60}`, service.ErrAlarmTimeInvalid, http.StatusBadRequest},
		{"not found", `{"id": 999, "hour": 9, "minutes": 5}`, service.ErrAlarmNotFound, http.StatusNotFound},
		{"store error", `{"id": 3, "hour": 9, "minutes": 5}`, apperrors.ErrStore, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockAlarmService{
				updateResult: &dto.UpdateAlarmResponse{Message: "ok", UpdatedTime: "09:05"},
				updateErr:    tt.err,
			}
			h := NewAlarmHandler(mock, &mockStatusService{})

			w := serve("PUT", "/alarma/update", bytes.NewReader([]byte(tt.body)), func(r *gin.Engine) {
				r.PUT("/alarma/update", h.UpdateAlarm)
			})

			if w.Code != tt.wantCode {
				t.Errorf("expected %d, got %d (%s)", tt.wantCode, w.Code, w.Body.String())
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// CommandHandler Tests
// ═══════════════════════════════════════════════════════════

func TestCommandHandler_SendCommand(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		err       error
		wantCode  int
		wantCalls int
	}{
		{"on", `{"command": "on"}`, nil, http.StatusOK, 1},
		{"invalid", `{"command": "maybe"}`, service.ErrInvalidCommand, http.StatusBadRequest, 1},
		{"missing", `{}`, nil, http.StatusBadRequest, 0},
		{"publish failure", `{"command": "off"}`, apperrors.ErrTransport, http.StatusInternalServerError, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockCommandService{
				result: &dto.CommandResponse{Message: "sent", Command: "on"},
				err:    tt.err,
			}
			h := NewCommandHandler(mock)

			w := serve("POST", "/alarma/command", bytes.NewReader([]byte(tt.body)), func(r *gin.Engine) {
				r.POST("/alarma/command", h.SendCommand)
			})

			if w.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, w.Code)
			}
			if mock.calls != tt.wantCalls {
				t.Errorf("expected %d service calls, got %d", tt.wantCalls, mock.calls)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// HealthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestHealthHandler_Check(t *testing.T) {
	up := NewHealthHandler(&mockHealthService{result: &dto.HealthResponse{Status: "ok"}, ok: true})
	w := serve("GET", "/health", nil, func(r *gin.Engine) { r.GET("/health", up.Check) })
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	down := NewHealthHandler(&mockHealthService{result: &dto.HealthResponse{Status: "degraded"}, ok: false})
	w = serve("GET", "/health", nil, func(r *gin.Engine) { r.GET("/health", down.Check) })
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}
