package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func TestCronGuard(t *testing.T) {
	called := false
	guarded := cronGuard("topsecret", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCalled bool
	}{
		{"exact secret", "Bearer topsecret", http.StatusOK, true},
		{"wrong secret", "Bearer nope", http.StatusUnauthorized, false},
		{"secret with suffix", "Bearer topsecret2", http.StatusUnauthorized, false},
		{"missing bearer prefix", "topsecret", http.StatusUnauthorized, false},
		{"no header", "", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called = false
			req := httptest.NewRequest("POST", "/api/cron/daily-reminders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			guarded(rec, req, nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalled, called)
		})
	}
}
