package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCronSpec(t *testing.T) {
	valid := []string{"0 8 * * *", "*/5 * * * *", "0 9 * * 1", "@daily", "@every 1h"}
	for _, spec := range valid {
		_, err := ParseCronSpec(spec)
		assert.NoError(t, err, spec)
	}

	invalid := []string{"", "   ", "every day", "0 8 * *", "61 * * * *", "0 0 0 * * *"}
	for _, spec := range invalid {
		_, err := ParseCronSpec(spec)
		assert.Error(t, err, spec)
	}
}

func TestParseCronSpec_Next(t *testing.T) {
	schedule, err := ParseCronSpec("0 9 * * 1")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 3, 17, 9, 0, 0, 0, time.UTC), schedule.Next(refTime))
}

func TestScheduler_AddRejectsInvalidSpec(t *testing.T) {
	sched := NewScheduler()

	assert.Error(t, sched.Add("broken", "not a cron", func() {}))
	assert.NoError(t, sched.Add("ok", "@hourly", func() {}))
}

func TestSchedulerLocks_NilDatabaseAlwaysAcquires(t *testing.T) {
	locks := NewSchedulerLocks(nil)

	ok, err := locks.TryAcquire("job", "slot", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSchedulerLocks_SingleHolderPerSlot(t *testing.T) {
	db := newTestDB(t)
	first := NewSchedulerLocks(db)
	second := NewSchedulerLocks(db)

	ok, err := first.TryAcquire("scheduled-backup", "2025-03-14T02:00:00Z", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = second.TryAcquire("scheduled-backup", "2025-03-14T02:00:00Z", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = second.TryAcquire("scheduled-backup", "2025-03-15T02:00:00Z", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSchedulerLocks_ExpiredClaimIsTakenOver(t *testing.T) {
	db := newTestDB(t)
	locks := NewSchedulerLocks(db)

	ok, err := locks.TryAcquire("job", "slot", -time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = locks.TryAcquire("job", "slot", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
