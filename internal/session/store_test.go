package session

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newTestStore(ttl time.Duration) (*Store, *time.Time) {
	l := logrus.New()
	l.SetOutput(io.Discard)
	log := logrus.NewEntry(l)
	now := time.Unix(1700000000, 0)
	s := NewStore(ttl, func() *Controller {
		return NewController(&stubAnalyzer{result: taro}, "h", log)
	}, log)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestStoreCreateGet(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	id, ctrl := s.Create()
	require.NotEmpty(t, id)

	got, ok := s.Get(id)
	require.True(t, ok)
	require.Same(t, ctrl, got)

	_, ok = s.Get("missing")
	require.False(t, ok)

	id2, _ := s.Create()
	require.NotEqual(t, id, id2)
	require.Equal(t, 2, s.Len())
}

func TestStoreSweep(t *testing.T) {
	s, now := newTestStore(time.Minute)
	stale, _ := s.Create()
	fresh, _ := s.Create()

	*now = now.Add(45 * time.Second)
	_, ok := s.Get(fresh)
	require.True(t, ok)

	*now = now.Add(30 * time.Second)
	require.Equal(t, 1, s.Sweep())
	_, ok = s.Get(stale)
	require.False(t, ok)
	_, ok = s.Get(fresh)
	require.True(t, ok)
}

func TestStoreSweepKeepsInFlight(t *testing.T) {
	s, now := newTestStore(time.Minute)
	gate := make(chan struct{})
	l := logrus.New()
	l.SetOutput(io.Discard)
	s.factory = func() *Controller {
		return NewController(&stubAnalyzer{result: taro, gate: gate}, "h", logrus.NewEntry(l))
	}
	id, ctrl := s.Create()
	ctrl.SelectFile(wav)
	ctrl.SetCredential("key")
	ctrl.BeginAnalysisAsync(context.Background())

	*now = now.Add(time.Hour)
	require.Equal(t, 0, s.Sweep())
	_, ok := s.Get(id)
	require.True(t, ok)

	close(gate)
	s.Wait()
	require.Equal(t, PhaseCompleted, ctrl.Snapshot().Phase)
}

func TestStoreRunStops(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}
