package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersIncrement(t *testing.T) {
	MustRegister()
	MustRegister()

	before := testutil.ToFloat64(workflowSubmissions.WithLabelValues("verify", "failure"))
	IncWorkflowSubmission(" Verify ", "FAILURE")
	assert.Equal(t, before+1, testutil.ToFloat64(workflowSubmissions.WithLabelValues("verify", "failure")))

	beforeReq := testutil.ToFloat64(backendRequests.WithLabelValues("/interview", "success"))
	ObserveBackendRequest("/interview", "success", 120*time.Millisecond)
	assert.Equal(t, beforeReq+1, testutil.ToFloat64(backendRequests.WithLabelValues("/interview", "success")))

	beforeLogin := testutil.ToFloat64(loginAttempts.WithLabelValues("no_frame"))
	IncLoginAttempt("no_frame")
	assert.Equal(t, beforeLogin+1, testutil.ToFloat64(loginAttempts.WithLabelValues("no_frame")))
}
