package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNext_DefaultTimeoutIsZero(t *testing.T) {
	t.Parallel()
	n, err := NewNext("step_b", Params{"x": 1})
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), n.Timeout)
	assert.Equal(t, "step_b", n.Step)
}

func TestNewNext_RejectsTimeoutAboveMax(t *testing.T) {
	t.Parallel()
	_, err := NewNext("step_b", nil, MaxStepTimeout+time.Second)
	require.ErrorIs(t, err, ErrInvalidTimeout)
}

func TestNewNext_AcceptsTimeoutAtMax(t *testing.T) {
	t.Parallel()
	n, err := NewNext("step_b", nil, MaxStepTimeout)
	require.NoError(t, err)
	assert.Equal(t, MaxStepTimeout, n.Timeout)
}

func TestNewWaitAndNext_ClampsNegativeWait(t *testing.T) {
	t.Parallel()
	w, err := NewWaitAndNext(-5*time.Second, "step_b", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), w.Wait)
}

func TestNewWaitAndNext_RejectsTimeoutAboveMax(t *testing.T) {
	t.Parallel()
	_, err := NewWaitAndNext(time.Second, "step_b", nil, MaxStepTimeout*2)
	require.ErrorIs(t, err, ErrInvalidTimeout)
}

func TestNewSchedule_WaitDurationClampsPast(t *testing.T) {
	t.Parallel()
	s, err := NewSchedule(time.Now().Add(-10*time.Second), "step_b", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), s.waitDuration(time.Now()))
}

func TestNewSchedule_WaitDurationFuture(t *testing.T) {
	t.Parallel()
	future := time.Now().Add(time.Hour)
	s, err := NewSchedule(future, "step_b", nil)
	require.NoError(t, err)
	d := s.waitDuration(time.Now())
	assert.True(t, d > 59*time.Minute && d <= time.Hour)
}

func TestNewEnd_CarriesResult(t *testing.T) {
	t.Parallel()
	e := NewEnd(42)
	assert.Equal(t, 42, e.Result)
}

func TestTransitions_AreDistinctTypes(t *testing.T) {
	t.Parallel()
	var transitions = []Transition{
		NewEnd(nil),
		Next{Step: "a"},
		WaitAndNext{Step: "a"},
		Schedule{Step: "a"},
	}
	for _, tr := range transitions {
		assert.NotNil(t, tr)
	}
}
