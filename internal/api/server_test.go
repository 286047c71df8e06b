package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/rre-dashboard/internal/api"
	v1 "github.com/stacklok/rre-dashboard/internal/api/v1"
	"github.com/stacklok/rre-dashboard/internal/dashboard"
	gatewaymocks "github.com/stacklok/rre-dashboard/internal/gateway/mocks"
	"github.com/stacklok/rre-dashboard/internal/status"
	syncmocks "github.com/stacklok/rre-dashboard/internal/sync/mocks"
)

func newRoutes(t *testing.T) *v1.Routes {
	t.Helper()
	ctrl := gomock.NewController(t)
	return v1.NewRoutes(
		dashboard.NewState(),
		status.NewTracker(),
		syncmocks.NewMockSynchronizer(ctrl),
		gatewaymocks.NewMockGateway(ctrl),
	)
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	server := api.NewServer(newRoutes(t))

	req, err := http.NewRequest(http.MethodGet, "/health", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var response api.HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("not mounted without handler", func(t *testing.T) {
		t.Parallel()
		server := api.NewServer(newRoutes(t))

		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("serves the configured handler", func(t *testing.T) {
		t.Parallel()
		handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("rre_dashboard_list_size 3\n"))
		})
		server := api.NewServer(newRoutes(t), api.WithMetricsHandler(handler))

		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "rre_dashboard_list_size")
	})
}

func TestWithMiddlewares(t *testing.T) {
	t.Parallel()

	var seen []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = append(seen, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	server := api.NewServer(newRoutes(t),
		api.WithMiddlewares(middleware.RequestID, tag("first")),
		api.WithMiddlewares(tag("second"), api.LoggingMiddleware),
	)

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"first", "second"}, seen)
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()

	server := api.NewServer(newRoutes(t))
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v2/state", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
