package metrics_test

import (
	"testing"
	"time"

	"storefront/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCacheLookup(t *testing.T) {
	before := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("products", "hit"))
	metrics.RecordCacheLookup("products", "hit")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("products", "hit")))
}

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/health", "200"))
	metrics.ObserveRequest("GET", "/health", "200", time.Now())
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/health", "200")))
}

func TestRecordAuthAttempt(t *testing.T) {
	before := testutil.ToFloat64(metrics.AuthAttempts.WithLabelValues("email", "failure"))
	metrics.RecordAuthAttempt("email", false)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.AuthAttempts.WithLabelValues("email", "failure")))
}
