package services

import (
	"testing"

	"github.com/aibizeyes/admin-gateway/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_List(t *testing.T) {
	svc := NewNotificationService(newTestStore(), offline())

	unread := svc.List(bg, &NotificationListRequest{Status: models.NotificationUnread})
	assert.Equal(t, 4, unread.Pagination.Total)

	deadlines := svc.List(bg, &NotificationListRequest{Type: "deadline", Priority: "urgent"})
	require.Len(t, deadlines.Data, 1)
	assert.Equal(t, int64(2), deadlines.Data[0].ID)

	found := svc.List(bg, &NotificationListRequest{Search: "solar"})
	require.Len(t, found.Data, 1)
	assert.Equal(t, int64(5), found.Data[0].ID)
}

func TestNotificationService_BulkRead(t *testing.T) {
	st := newTestStore()
	svc := NewNotificationService(st, offline())

	res := svc.Bulk(bg, &models.BulkNotificationRequest{IDs: []int64{1, 2, 999}, Action: "read"})
	assert.Equal(t, "read", res.Action)
	assert.Equal(t, 2, res.Affected)
	assert.Equal(t, []int64{999}, res.Missing)

	n, err := st.Notifications.Get(1)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationRead, n.Status)
	require.NotNil(t, n.ReadAt)
	assert.Equal(t, refTime, *n.ReadAt)
}

func TestNotificationService_BulkUnreadArchiveDelete(t *testing.T) {
	st := newTestStore()
	svc := NewNotificationService(st, offline())

	res := svc.Bulk(bg, &models.BulkNotificationRequest{IDs: []int64{3}, Action: "unread"})
	assert.Equal(t, 1, res.Affected)
	assert.Empty(t, res.Missing)
	assert.NotNil(t, res.Missing)
	n, _ := st.Notifications.Get(3)
	assert.Equal(t, models.NotificationUnread, n.Status)
	assert.Nil(t, n.ReadAt)

	svc.Bulk(bg, &models.BulkNotificationRequest{IDs: []int64{4}, Action: "archive"})
	n, _ = st.Notifications.Get(4)
	assert.Equal(t, models.NotificationArchived, n.Status)

	res = svc.Bulk(bg, &models.BulkNotificationRequest{IDs: []int64{5, 5}, Action: "delete"})
	assert.Equal(t, 1, res.Affected)
	assert.Equal(t, []int64{5}, res.Missing)
	assert.Equal(t, 7, st.Notifications.Len())
}

func TestNotificationService_Stats(t *testing.T) {
	svc := NewNotificationService(newTestStore(), offline())

	stats := svc.Stats(bg)
	assert.Equal(t, 8, stats.Total)
	assert.Equal(t, 4, stats.Unread)
	assert.Equal(t, 3, stats.Read)
	assert.Equal(t, 1, stats.Archived)
	assert.Equal(t, map[string]int{"bid_new": 2, "deadline": 2, "bid_update": 2, "system": 2}, stats.ByType)
	assert.Equal(t, 1, stats.ByPriority["urgent"])
}

func TestNotificationService_UpdateSettings(t *testing.T) {
	svc := NewNotificationService(newTestStore(), offline())

	before := svc.Settings(bg)
	require.Equal(t, "realtime", before.Frequency)

	updated := svc.UpdateSettings(bg, &models.NotificationSettingsPatch{
		Frequency:  ptr("daily"),
		SMSEnabled: ptr(true),
	})
	assert.Equal(t, "daily", updated.Frequency)
	assert.True(t, updated.SMSEnabled)
	assert.Equal(t, before.Types, updated.Types)
	assert.Equal(t, updated, svc.Settings(bg))
}
