package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"app_error", apperrors.ErrTransactionNotFound, http.StatusNotFound, "TRANSACTION_NOT_FOUND"},
		{"wrapped_store_error", apperrors.Wrap(apperrors.ErrStoreUnavailable, errors.New("dial tcp: refused")), http.StatusServiceUnavailable, "STORE_UNAVAILABLE"},
		{"unexpected_error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler())
			r.GET("/fail", func(c *gin.Context) { _ = c.Error(tt.err) })

			rec := serve(r, httptest.NewRequest(http.MethodGet, "/fail", http.NoBody))
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if code := errorCode(t, rec); code != tt.wantCode {
				t.Errorf("code = %q, want %q", code, tt.wantCode)
			}
		})
	}
}

func TestRequestLogging_SetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(requestIDKey))
	})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))
	id := rec.Header().Get("X-Request-ID")
	if id == "" || rec.Body.String() != id {
		t.Errorf("expected matching request ID header and context value, got %q / %q", id, rec.Body.String())
	}
}

func TestErrorHandler_KeepsWrittenResponse(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/fail", func(c *gin.Context) {
		c.JSON(http.StatusTeapot, gin.H{"ok": false})
		_ = c.Error(errors.New("late failure"))
	})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/fail", http.NoBody))
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
	if _, ok := parseBody(t, rec)["error"]; ok {
		t.Error("handler response should not be replaced")
	}
}

func TestRequestLogging_InboundRequestID(t *testing.T) {
	const inbound = "0190b4a2-7c1e-7a8b-9f00-3c2d1e0f4a5b"

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{"uuid_is_kept", inbound, true},
		{"garbage_is_replaced", "not-a-uuid", false},
		{"missing_is_generated", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(RequestLogging())
			r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, RequestID(c)) })

			req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
			if tt.header != "" {
				req.Header.Set("X-Request-ID", tt.header)
			}
			rec := serve(r, req)

			got := rec.Header().Get("X-Request-ID")
			if tt.keep && got != tt.header {
				t.Errorf("request ID = %q, want %q", got, tt.header)
			}
			if !tt.keep && (got == "" || got == tt.header) {
				t.Errorf("expected a fresh request ID, got %q", got)
			}
			if rec.Body.String() != got {
				t.Errorf("context ID %q does not match header %q", rec.Body.String(), got)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS("http://app.test"))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://app.test" {
		t.Errorf("allow origin = %q", got)
	}

	preflight := httptest.NewRequest(http.MethodOptions, "/ping", http.NoBody)
	rec = serve(r, preflight)
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
}
