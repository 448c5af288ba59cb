package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name string
	runs int
	err  error
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(context.Context) error {
	j.runs++
	return j.err
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(zerolog.Nop())

	require.NoError(t, s.AddJob("0 */5 * * * *", &countingJob{name: "b"}))
	require.NoError(t, s.AddJob("@every 30s", &countingJob{name: "a"}))
	assert.Equal(t, []string{"a", "b"}, s.Jobs())

	err := s.AddJob("not a schedule", &countingJob{name: "c"})
	assert.Error(t, err)
	assert.NotContains(t, s.Jobs(), "c")
}

func TestScheduler_RunByName(t *testing.T) {
	s := New(zerolog.Nop())
	ok := &countingJob{name: "ok"}
	failing := &countingJob{name: "failing", err: errors.New("boom")}
	s.Register(ok)
	s.Register(failing)

	require.NoError(t, s.RunByName(context.Background(), "ok"))
	assert.Equal(t, 1, ok.runs)

	assert.EqualError(t, s.RunByName(context.Background(), "failing"), "boom")
	assert.ErrorIs(t, s.RunByName(context.Background(), "missing"), ErrUnknownJob)
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(zerolog.Nop())
	assert.NotPanics(t, func() {
		s.Start()
		s.Stop()
	})
}
