package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueDrain(t *testing.T) {
	q := NewQueue(3)
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	q.now = func() time.Time { return fixed }

	q.Notify(Success("one"))
	q.Notify(Error("two"))

	require.Equal(t, 2, q.Len())

	got := q.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, "one", got[0].Message)
	assert.Equal(t, SeveritySuccess, got[0].Severity)
	assert.Equal(t, fixed, got[0].CreatedAt)
	assert.Equal(t, SeverityError, got[1].Severity)

	assert.Nil(t, q.Drain(), "queue is empty after drain")
	assert.Equal(t, 0, q.Len())
}

func TestQueueDropsOldest(t *testing.T) {
	q := NewQueue(2)

	q.Notify(Info("a"))
	q.Notify(Info("b"))
	q.Notify(Warning("c"))

	got := q.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Message)
	assert.Equal(t, "c", got[1].Message)
}

func TestNewQueueMinimumLimit(t *testing.T) {
	q := NewQueue(0)
	q.Notify(Info("a"))
	q.Notify(Info("b"))

	got := q.Drain()
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Message)
}

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Notify(Warning("w"))
	r.Notify(Error("e1"))
	r.Notify(Error("e2"))

	assert.Len(t, r.All(), 3)
	assert.Equal(t, 1, r.Count(SeverityWarning))
	assert.Equal(t, 2, r.Count(SeverityError))
	assert.Equal(t, 0, r.Count(SeveritySuccess))
}
