package quota

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "quota.db"), 10, 5)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRemaining_NewUserGetsFullLimit(t *testing.T) {
	s := newTestStore(t)

	remaining, err := s.Remaining(42)
	require.NoError(t, err)
	assert.Equal(t, 10, remaining)
}

func TestConsume_DecrementsRemaining(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Remaining(42)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Consume(42))
	}
	remaining, err := s.Remaining(42)
	require.NoError(t, err)
	assert.Equal(t, 7, remaining)
}

func TestRemaining_NeverNegative(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 15; i++ {
		require.NoError(t, s.Consume(42))
	}
	remaining, err := s.Remaining(42)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}

func TestRemaining_ResetsOnNewDay(t *testing.T) {
	s := newTestStore(t)

	day := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return day }

	for i := 0; i < 10; i++ {
		require.NoError(t, s.Consume(42))
	}
	remaining, err := s.Remaining(42)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	// Next UTC day: the stale counter resets lazily.
	s.now = func() time.Time { return day.Add(24 * time.Hour) }
	remaining, err = s.Remaining(42)
	require.NoError(t, err)
	assert.Equal(t, 10, remaining)
}

func TestAddReferral_GrantsBonus(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 8; i++ {
		require.NoError(t, s.Consume(42))
	}
	require.NoError(t, s.AddReferral(42))

	remaining, err := s.Remaining(42)
	require.NoError(t, err)
	assert.Equal(t, 7, remaining, "bonus should subtract 5 from the used counter")
}

func TestAddReferral_FloorsAtZeroUsed(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Consume(42))
	require.NoError(t, s.Consume(42))
	require.NoError(t, s.AddReferral(42)) // bonus 5 > used 2

	remaining, err := s.Remaining(42)
	require.NoError(t, err)
	assert.Equal(t, 10, remaining, "used counter floors at zero, never grants above the limit")
}

func TestAddReferral_UnknownUserCreated(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.AddReferral(99))
	remaining, err := s.Remaining(99)
	require.NoError(t, err)
	assert.Equal(t, 10, remaining)
}

func TestResetAll(t *testing.T) {
	s := newTestStore(t)

	for _, id := range []int64{1, 2, 3} {
		require.NoError(t, s.Consume(id))
		require.NoError(t, s.Consume(id))
	}
	require.NoError(t, s.ResetAll())

	for _, id := range []int64{1, 2, 3} {
		remaining, err := s.Remaining(id)
		require.NoError(t, err)
		assert.Equal(t, 10, remaining)
	}
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Ping())
}

func TestNewSQLiteStore_RejectsBadConfig(t *testing.T) {
	_, err := NewSQLiteStore(filepath.Join(t.TempDir(), "q.db"), 0, 5)
	assert.Error(t, err)

	_, err = NewSQLiteStore(filepath.Join(t.TempDir(), "q.db"), 10, -1)
	assert.Error(t, err)
}
