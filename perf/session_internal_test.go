package perf

import (
	"testing"
	"time"

	"github.com/momentics/hioload-vsock/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock returns a clock that advances by step on every call.
func stepClock(step time.Duration) func() time.Time {
	t := time.Unix(1700000000, 0)
	return func() time.Time {
		now := t
		t = t.Add(step)
		return now
	}
}

func TestSender_StopsWhenBudgetIsSpent(t *testing.T) {
	conn := fake.NewConn(nil, 7)
	sess := NewSession(Sender, Config{
		ChunkSize: 100,
		Duration:  10 * time.Millisecond,
		Interval:  4 * time.Millisecond,
	})
	sess.now = stepClock(time.Millisecond)

	report, err := sess.Run(conn)
	require.NoError(t, err)
	assert.Equal(t, Done, sess.State())

	// Budget checks at 1, 3, 5, 7 and 9 ms pass, the one at 11 ms stops.
	assert.Equal(t, uint64(500), report.Bytes)
	assert.Equal(t, 12*time.Millisecond, report.Duration)
	assert.Equal(t, 5*(MessageSize+100)+2*MessageSize, len(conn.Sent()))

	assert.Equal(t, []Sample{
		{Offset: 0, Span: 4 * time.Millisecond, Bytes: 200},
		{Offset: 4 * time.Millisecond, Span: 4 * time.Millisecond, Bytes: 200},
		{Offset: 8 * time.Millisecond, Span: 4 * time.Millisecond, Bytes: 100},
	}, report.Intervals)
}

func TestSender_PayloadIsFiller(t *testing.T) {
	conn := fake.NewConn(nil, 0)
	sess := NewSession(Sender, Config{ChunkSize: 9, Duration: 2 * time.Millisecond})
	sess.now = stepClock(time.Millisecond)

	_, err := sess.Run(conn)
	require.NoError(t, err)

	sent := conn.Sent()
	payload := sent[2*MessageSize : 2*MessageSize+9]
	for _, b := range payload {
		assert.Equal(t, byte(FillerByte), b)
	}
}
