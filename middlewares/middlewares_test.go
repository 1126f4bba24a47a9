package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"

	"pizzeria-service/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func counterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return -1
	}
	return m.GetCounter().GetValue()
}

func newRouter(secret string) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), PrometheusMiddleware())
	r.GET("/open", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/closed", OperatorAuth(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": c.GetString(roleKey)})
	})
	return r
}

func TestOperatorAuth(t *testing.T) {
	r := newRouter("secret")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/closed", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/closed", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := utils.IssueOperatorToken("secret", time.Hour, time.Now())
	assert.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/closed", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role":"operator"}`, w.Body.String())
}

func TestRequestID(t *testing.T) {
	r := newRouter("secret")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)

	given := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set(RequestIDHeader, given)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, given, w.Header().Get(RequestIDHeader))
}

func TestWriteFailureCounter(t *testing.T) {
	before := counterValue(writeFailures.WithLabelValues("order"))
	RecordWriteFailure("order", nil)
	assert.Equal(t, before+1, counterValue(writeFailures.WithLabelValues("order")))
}

func TestRequestCounter(t *testing.T) {
	r := newRouter("secret")
	before := counterValue(httpRequestsTotal.WithLabelValues(http.MethodGet, "/open", "200"))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, before+1, counterValue(httpRequestsTotal.WithLabelValues(http.MethodGet, "/open", "200")))
}
