package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCompletion(t *testing.T) {
	before := testutil.ToFloat64(completionCalls.WithLabelValues("test", "error"))
	RecordCompletion("test", 150*time.Millisecond, errors.New("timeout"))
	assert.Equal(t, before+1, testutil.ToFloat64(completionCalls.WithLabelValues("test", "error")))
}

func TestRecordPlacesCache(t *testing.T) {
	before := testutil.ToFloat64(placesCalls.WithLabelValues("details", "cache"))
	RecordPlaces("details", true, nil)
	assert.Equal(t, before+1, testutil.ToFloat64(placesCalls.WithLabelValues("details", "cache")))
}

func TestRecordFallbackAndJob(t *testing.T) {
	RecordFallback("ads")
	RecordJob("audit.score", "retry")
	assert.GreaterOrEqual(t, testutil.ToFloat64(llmFallbacks.WithLabelValues("ads")), 1.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(jobsProcessed.WithLabelValues("audit.score", "retry")), 1.0)
}
