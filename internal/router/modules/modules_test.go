package modules

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/go-ddd-social-graph/internal/application"
	"github.com/oksasatya/go-ddd-social-graph/internal/domain/entity"
	handlers "github.com/oksasatya/go-ddd-social-graph/internal/interface/http"
	"github.com/oksasatya/go-ddd-social-graph/internal/metrics"
)

type staticVerifier struct{}

func (staticVerifier) Verify(_ context.Context, token string) (string, error) {
	if token == "good" {
		return "user_ext_1", nil
	}
	return "", errors.New("invalid")
}

// stubUsers answers every call with "not found" so routing can be observed
// through status codes alone.
type stubUsers struct{ handlers.UserService }

func (stubUsers) GetByUsername(context.Context, string) (*entity.User, error) {
	return nil, application.ErrUserNotFound
}

func (stubUsers) GetCurrent(_ context.Context, externalID string) (*entity.User, error) {
	return &entity.User{ID: "u1", ExternalID: externalID}, nil
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	NewUserModule(handlers.NewUserHandler(stubUsers{}, nil, 0), staticVerifier{}, nil).Register(api)
	NewNotificationModule(handlers.NewNotificationHandler(nil, nil), staticVerifier{}, nil).Register(api)
	NewMetricsModule(metrics.NewCollector(prometheus.NewRegistry()).Handler(), nil).Register(api)
	return r
}

func TestRoutesRegistered(t *testing.T) {
	routes := map[string]bool{}
	for _, ri := range newEngine().Routes() {
		routes[ri.Method+" "+ri.Path] = true
	}
	for _, want := range []string{
		"GET /api/users/:username",
		"GET /api/users/:username/followers",
		"GET /api/users/:username/following",
		"POST /api/users/sync",
		"GET /api/users/me",
		"PATCH /api/users/me",
		"PUT /api/users/me",
		"PUT /api/users/me/avatar",
		"POST /api/users/:username/follow",
		"GET /api/notifications",
		"PATCH /api/notifications/:id/read",
		"GET /api/metrics",
	} {
		assert.True(t, routes[want], want)
	}
}

func TestProtectedRoutesRequireBearer(t *testing.T) {
	r := newEngine()
	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/users/sync"},
		{http.MethodGet, "/api/users/me"},
		{http.MethodPatch, "/api/users/me"},
		{http.MethodPost, "/api/users/u2/follow"},
		{http.MethodGet, "/api/notifications"},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.method+" "+tc.path)
	}
}

func TestPublicAndAuthenticatedReads(t *testing.T) {
	r := newEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users/alice", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user_ext_1")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
