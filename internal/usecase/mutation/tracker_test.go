package mutation

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listkeeper/internal/domain/entity"
	"listkeeper/internal/observability/metrics"
)

func TestTracker_AcquireRelease(t *testing.T) {
	tr := NewTracker()
	k := Key{Kind: KindList, ID: 3}

	release, err := tr.Acquire(k)
	require.NoError(t, err)
	assert.True(t, tr.InFlight(k))

	before := testutil.ToFloat64(metrics.MutationInflightRejections.WithLabelValues("list"))
	_, err = tr.Acquire(k)
	assert.ErrorIs(t, err, entity.ErrAlreadyInFlight)
	assert.EqualError(t, err, "list:3: operation already in progress")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.MutationInflightRejections.WithLabelValues("list")))

	release()
	release()
	assert.False(t, tr.InFlight(k))
	assert.Zero(t, tr.Len())

	_, err = tr.Acquire(k)
	assert.NoError(t, err)
}

func TestTracker_KindsAreSeparate(t *testing.T) {
	tr := NewTracker()

	_, err := tr.Acquire(Key{Kind: KindList, ID: 7})
	require.NoError(t, err)
	_, err = tr.Acquire(Key{Kind: KindArticle, ID: 7})
	assert.NoError(t, err)
	assert.Equal(t, 2, tr.Len())
}

func TestClassify(t *testing.T) {
	remote := &entity.RemoteError{StatusCode: 500, Body: "x"}
	tests := []struct {
		name string
		err  error
		want Outcome
	}{
		{"nil", nil, OutcomeOK},
		{"validation", &entity.ValidationError{Field: "name", Message: "is required"}, OutcomeValidationFailed},
		{"in flight", entity.ErrAlreadyInFlight, OutcomeAlreadyInFlight},
		{"unauthorized", entity.ErrUnauthorized, OutcomeUnauthorized},
		{"not found", entity.ErrNotFound, OutcomeNotFound},
		{"remote", remoteFailure("delete list", remote), OutcomeRemoteFailed},
		{"stale wins over unavailable", fmt.Errorf("%w: %w", entity.ErrStaleSnapshot, fmt.Errorf("load snapshot: %w", entity.ErrServiceUnavailable)), OutcomeStaleSnapshot},
		{"unknown", assert.AnError, OutcomeRemoteFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
