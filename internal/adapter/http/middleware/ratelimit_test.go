package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wager-settlement/internal/adapter/http/middleware"
	redisStore "wager-settlement/internal/adapter/storage/redis"
	"wager-settlement/internal/core/ports"
	"wager-settlement/internal/core/ports/mocks"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func setupRateLimitRouter(store ports.VelocityStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	rule := middleware.RateLimitRule{Limit: 3, Window: time.Hour}
	r.GET("/test", middleware.RateLimiter(store, "test", rule, zerolog.Nop()), func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	return r
}

func newRedisStore(t *testing.T) *redisStore.VelocityStore {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redisStore.NewVelocityStore(client)
}

func get(router *gin.Engine, userID string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if userID != "" {
		req.Header.Set(middleware.HeaderUserID, userID)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_AllowsWithinLimit(t *testing.T) {
	router := setupRateLimitRouter(newRedisStore(t))

	for i := 0; i < 3; i++ {
		w := get(router, "alice")
		assert.Equal(t, 200, w.Code, "request %d should succeed", i+1)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	router := setupRateLimitRouter(newRedisStore(t))

	for i := 0; i < 3; i++ {
		assert.Equal(t, 200, get(router, "alice").Code)
	}

	w := get(router, "alice")
	assert.Equal(t, 429, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimiter_CountsPerUser(t *testing.T) {
	router := setupRateLimitRouter(newRedisStore(t))

	for i := 0; i < 3; i++ {
		assert.Equal(t, 200, get(router, "alice").Code)
	}
	assert.Equal(t, 200, get(router, "bob").Code)
}

func TestRateLimiter_StoreFailureAllows(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVelocityStore(ctrl)
	store.EXPECT().Increment(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("redis down"))

	w := get(setupRateLimitRouter(store), "alice")
	assert.Equal(t, 200, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestDefaultRateLimitRules(t *testing.T) {
	rules := middleware.DefaultRateLimitRules()
	assert.Equal(t, int64(10), rules["withdraw"].Limit)
	assert.Equal(t, int64(60), rules["wallets"].Limit)
	assert.Equal(t, int64(30), rules["matchmaking"].Limit)
	assert.Equal(t, int64(120), rules["games"].Limit)
	assert.Equal(t, int64(600), rules["webhooks"].Limit)
}
