package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryRunsJobOnInterval(t *testing.T) {
	s := New()
	defer s.Stop()

	var runs atomic.Int32
	s.Every(5*time.Millisecond, FuncJob(func(context.Context) { runs.Add(1) }))

	require.Eventually(t, func() bool { return runs.Load() >= 2 },
		time.Second, 5*time.Millisecond)
}

func TestStopHaltsJobs(t *testing.T) {
	s := New()

	var runs atomic.Int32
	s.Every(5*time.Millisecond, FuncJob(func(context.Context) { runs.Add(1) }))

	require.Eventually(t, func() bool { return runs.Load() >= 1 },
		time.Second, 5*time.Millisecond)
	s.Stop()

	time.Sleep(20 * time.Millisecond)
	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, runs.Load(), "no runs after Stop")
}
