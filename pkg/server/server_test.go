package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Utkarsh-OTS/smm/pkg/logging"
	"github.com/Utkarsh-OTS/smm/pkg/monitoring"
)

func TestSetupServiceRouter(t *testing.T) {
	logger := logging.NewLogger()
	hc := monitoring.NewHealthChecker("smm", "test")

	r := SetupServiceRouter(logger, "smm", hc, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("smm", "18080")
	assert.Equal(t, "18080", cfg.Port)
	assert.Equal(t, "smm", cfg.ServiceName)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
}
