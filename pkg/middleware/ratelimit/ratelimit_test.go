package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func limitedRouter(perMinute, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", PerClient(perMinute, burst), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestPerClientThrottlesAfterBurst(t *testing.T) {
	r := limitedRouter(1, 3)

	var last int
	for i := 0; i < 4; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		r.ServeHTTP(w, req)
		last = w.Code
		if i < 3 {
			assert.Equal(t, http.StatusOK, w.Code, "request %d within burst", i)
		}
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestPerClientTracksClientsSeparately(t *testing.T) {
	r := limitedRouter(1, 1)

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "203.0.113.7:1234"
	r.ServeHTTP(first, req)
	assert.Equal(t, http.StatusOK, first.Code)

	throttled := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "203.0.113.7:1234"
	r.ServeHTTP(throttled, req)
	assert.Equal(t, http.StatusTooManyRequests, throttled.Code)

	other := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "198.51.100.9:1234"
	r.ServeHTTP(other, req)
	assert.Equal(t, http.StatusOK, other.Code)
}
