package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetflow/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockIdempotencyStore is an in-memory redis.IdempotencyStoreInterface.
type MockIdempotencyStore struct {
	mu   sync.Mutex
	data map[string][]byte

	GetError error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{data: make(map[string][]byte)}
}

func (m *MockIdempotencyStore) GetResponse(ctx context.Context, key string) ([]byte, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *MockIdempotencyStore) SetResponse(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	return nil
}

func countingRouter(store *MockIdempotencyStore, status int, calls *int32) *gin.Engine {
	r := gin.New()
	r.Use(Idempotency(store))
	handler := func(c *gin.Context) {
		n := atomic.AddInt32(calls, 1)
		c.JSON(status, gin.H{"call": n})
	}
	r.POST("/things", handler)
	r.GET("/things", handler)
	return r
}

func do(r http.Handler, method, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(`{}`))
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency_ReplaysFirstResponse(t *testing.T) {
	var calls int32
	r := countingRouter(NewMockIdempotencyStore(), http.StatusCreated, &calls)

	first := do(r, http.MethodPost, "/things", "abc")
	second := do(r, http.MethodPost, "/things", "abc")

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replay"))
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	do(r, http.MethodPost, "/things", "other")
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestIdempotency_Bypassed(t *testing.T) {
	var calls int32
	r := countingRouter(NewMockIdempotencyStore(), http.StatusOK, &calls)

	do(r, http.MethodPost, "/things", "")
	do(r, http.MethodPost, "/things", "")
	do(r, http.MethodGet, "/things", "k")
	do(r, http.MethodGet, "/things", "k")

	assert.EqualValues(t, 4, atomic.LoadInt32(&calls))
}

func TestIdempotency_ServerErrorsNotReplayed(t *testing.T) {
	var calls int32
	r := countingRouter(NewMockIdempotencyStore(), http.StatusInternalServerError, &calls)

	do(r, http.MethodPost, "/things", "abc")
	do(r, http.MethodPost, "/things", "abc")

	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestIdempotency_StoreFailureFallsThrough(t *testing.T) {
	var calls int32
	store := NewMockIdempotencyStore()
	store.GetError = assert.AnError
	r := countingRouter(store, http.StatusCreated, &calls)

	w := do(r, http.MethodPost, "/things", "abc")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestAuth(t *testing.T) {
	tokens := auth.NewService("secret", time.Hour)
	token, err := tokens.GenerateToken("ops@fleet.io", "Manager")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", Auth(tokens), func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		require.True(t, ok)
		c.String(http.StatusOK, claims.Subject)
	})

	tests := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{"bearer header", "Bearer " + token, "", http.StatusOK},
		{"query token", "", "?token=" + token, http.StatusOK},
		{"missing", "", "", http.StatusUnauthorized},
		{"garbage", "Bearer nope", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "ops@fleet.io", w.Body.String())
			} else {
				assert.JSONEq(t, `{"detail":"Could not validate credentials"}`, w.Body.String())
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware())
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/x", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLoggerEchoesRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
