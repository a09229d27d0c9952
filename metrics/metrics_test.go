package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRequest_UsesRouteLabel(t *testing.T) {
	counter := RequestTotal.WithLabelValues("GET", "/users/{id}/view", "200")
	before := testutil.ToFloat64(counter)

	RecordRequest("GET", "/users/{id}/view", 200, 0.01)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestRecordRequest_EmptyRouteIsUnmatched(t *testing.T) {
	counter := RequestTotal.WithLabelValues("GET", UnmatchedRoute, "404")
	before := testutil.ToFloat64(counter)

	RecordRequest("GET", "", 404, 0.01)
	RecordRequest("GET", "", 404, 0.01)

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestIncAuditEntries(t *testing.T) {
	before := testutil.ToFloat64(AuditEntriesTotal.WithLabelValues("Viewed"))
	IncAuditEntries("Viewed")
	assert.Equal(t, before+1, testutil.ToFloat64(AuditEntriesTotal.WithLabelValues("Viewed")))
}

func TestRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}
