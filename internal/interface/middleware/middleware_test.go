package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type verifierFunc func(ctx context.Context, token string) (string, error)

func (f verifierFunc) Verify(ctx context.Context, token string) (string, error) { return f(ctx, token) }

func init() { gin.SetMode(gin.TestMode) }

func TestAuth(t *testing.T) {
	v := verifierFunc(func(_ context.Context, token string) (string, error) {
		if token == "good" {
			return "user_ext_1", nil
		}
		return "", errors.New("bad signature")
	})
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/me", Auth(v), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxIdentityKey))
	})

	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"valid", "Bearer good", http.StatusOK},
		{"lowercase scheme", "bearer good", http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"bad token", "Bearer forged", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.code, w.Code)
			if tc.code == http.StatusOK {
				assert.Equal(t, "user_ext_1", w.Body.String())
				return
			}
			var env map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			assert.Equal(t, false, env["success"])
			assert.NotEmpty(t, env["request_id"])
		})
	}
}

type httpObs struct {
	route, method string
	status        int
}

type recorderFunc func(route, method string, status int, d time.Duration)

func (f recorderFunc) RecordHTTP(route, method string, status int, d time.Duration) {
	f(route, method, status, d)
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	var got []httpObs
	r := gin.New()
	r.Use(Metrics(recorderFunc(func(route, method string, status int, _ time.Duration) {
		got = append(got, httpObs{route, method, status})
	})))
	r.GET("/api/users/:username", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, p := range []string{"/api/users/alice", "/api/users/bob", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.Equal(t, []httpObs{
		{"/api/users/:username", http.MethodGet, http.StatusNoContent},
		{"/api/users/:username", http.MethodGet, http.StatusNoContent},
		{"unmatched", http.MethodGet, http.StatusNotFound},
	}, got)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Body.String(), 36)
	assert.Equal(t, w.Body.String(), w.Header().Get("X-Request-ID"))

	const given = "8a4f2f7e-2c57-4c55-9a8e-0c0d8c1f6b11"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", given)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, given, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "not-a-uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid", w.Body.String())
}

func TestRealIPAndAllowPrivate(t *testing.T) {
	allow := AllowPrivateIP()
	var allowed bool
	var ip string
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) {
		ip = c.GetString("real_ip")
		allowed = allow(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "203.0.113.9", ip)
	assert.False(t, allowed)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("CF-Connecting-IP", "10.1.2.3")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "10.1.2.3", ip)
	assert.True(t, allowed)
}

func TestRateLimit_DisabledWithoutRedis(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(nil, 1, time.Minute, KeyByIPAndPath(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestKeyByIdentity(t *testing.T) {
	var key string
	r := gin.New()
	r.Use(RealIP())
	r.POST("/users/:username/follow", func(c *gin.Context) {
		if id := c.GetHeader("X-Identity"); id != "" {
			c.Set(CtxIdentityKey, id)
		}
		key = KeyByIdentity()(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/users/u2/follow", nil)
	req.Header.Set("X-Identity", "user_ext_1")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "rl:user:user_ext_1:path:/users/:username/follow", key)

	req = httptest.NewRequest(http.MethodPost, "/users/u2/follow", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "rl:user:anon:ip:203.0.113.9", key)
}

func TestRemaining(t *testing.T) {
	assert.Equal(t, 4, remaining(5, 1))
	assert.Equal(t, 0, remaining(5, 7))
}
