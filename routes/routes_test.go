package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"meetsync/handlers"
	"meetsync/middleware"
	"meetsync/services/availability"
	"meetsync/services/calendar"
	"meetsync/services/notification"
	"meetsync/services/submission"
	"meetsync/services/timegrid"
	"meetsync/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func newRouter(t *testing.T, perMinute int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	grid := timegrid.DefaultGrid()
	bus := notification.NewDefaultBus(zap.NewNop())
	store, err := availability.NewStore(grid, bus, zap.NewNop(), 0)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	client, err := submission.NewHTTPSolverClient("http://127.0.0.1:1/call-model", time.Second, zap.NewNop())
	if err != nil {
		t.Fatalf("NewHTTPSolverClient: %v", err)
	}
	svc, err := submission.NewDefaultSubmissionService(store, client, nil, 0, zap.NewNop())
	if err != nil {
		t.Fatalf("NewDefaultSubmissionService: %v", err)
	}
	hub := handlers.NewEventsHub(bus, store, nil, zap.NewNop())
	t.Cleanup(hub.Close)

	hb := handlers.NewHandlerBundle(
		handlers.NewAvailabilityHandler(store, grid, calendar.NewImporter(grid, time.UTC, zap.NewNop())),
		handlers.NewTransferHandler(store),
		handlers.NewSubmissionHandler(svc, grid.DayStart),
		hub,
		handlers.NewHealthHandler(utils.NewHealthMonitor(nil)),
	)

	r := gin.New()
	RegisterRoutes(r, hb, Options{MaxRequestsPerMin: perMinute, Logger: zap.NewNop()})
	return r
}

func TestRegisterRoutes(t *testing.T) {
	r := newRouter(t, 100)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/state", http.StatusOK},
		{http.MethodGet, "/api/transfer/users", http.StatusOK},
		{http.MethodGet, "/api/results/latest", http.StatusNotFound},
		{http.MethodPost, "/api/submit", http.StatusBadRequest},
		{http.MethodGet, "/api/users/selected/schedule", http.StatusConflict},
		{http.MethodGet, "/api/unknown", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
			if w.Header().Get(middleware.RequestIDHeader) == "" {
				t.Error("missing request id header")
			}
		})
	}
}

func TestRateLimitAppliesToAPIOnly(t *testing.T) {
	r := newRouter(t, 2)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/state", nil))
		codes = append(codes, w.Code)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want the third request limited", codes)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", w.Code)
	}
}
