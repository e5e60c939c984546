package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/postboard/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestIPLimitersBurstAndRefill(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newIPLimiters(60)
	l.now = func() time.Time { return now }

	for i := 0; i < 30; i++ {
		if !l.allow("10.0.0.1") {
			t.Fatalf("request %d within burst denied", i)
		}
	}
	if l.allow("10.0.0.1") {
		t.Fatal("request past burst allowed")
	}
	if !l.allow("10.0.0.2") {
		t.Fatal("other clients have their own bucket")
	}

	now = now.Add(time.Second)
	if !l.allow("10.0.0.1") {
		t.Fatal("token not refilled after one second")
	}
}

func TestIPLimitersForgetIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newIPLimiters(1)
	l.now = func() time.Time { return now }

	l.allow("10.0.0.1")
	now = now.Add(limiterIdleTTL + time.Second)
	l.allow("10.0.0.2")
	if _, ok := l.clients["10.0.0.1"]; ok {
		t.Fatal("idle client was not evicted")
	}
	if len(l.clients) != 1 {
		t.Fatalf("expected one tracked client, got %d", len(l.clients))
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, ctx.GetString(utils.RequestIDKey))
	})

	tests := []struct {
		name    string
		inbound string
		reuse   bool
	}{
		{"none", "", false},
		{"garbage", "not-a-uuid", false},
		{"valid", "5f0c2a7e-3c9b-4c1e-9a53-7f6d2b1e8c44", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.inbound != "" {
				req.Header.Set(RequestIDHeader, tt.inbound)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get(RequestIDHeader)
			if got == "" || got != w.Body.String() {
				t.Fatalf("header %q and context %q must match", got, w.Body.String())
			}
			if (got == tt.inbound) != tt.reuse {
				t.Fatalf("inbound %q, got %q, reuse=%v", tt.inbound, got, tt.reuse)
			}
		})
	}
}
