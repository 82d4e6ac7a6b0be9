package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordRequest(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequest("/api/widgets", 200, 25*time.Millisecond)
	c.RecordRequest("/api/widgets", 200, 5*time.Millisecond)
	c.RecordRequest("/api/widgets/:id", 404, time.Millisecond)

	require.Equal(t, float64(2), testutil.ToFloat64(c.requests.WithLabelValues("/api/widgets", "200")))
	require.Equal(t, float64(1), testutil.ToFloat64(c.requests.WithLabelValues("/api/widgets/:id", "404")))
}
