package services

import (
	"net/http"
	"testing"

	"github.com/aibizeyes/admin-gateway/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotificationConfigService() *NotificationConfigService {
	st := newTestStore()
	return NewNotificationConfigService(st, offline(), NewSystemLogger(st))
}

func TestNotificationConfigService_CreateDefaults(t *testing.T) {
	svc := newNotificationConfigService()

	created := svc.Create(bg, &models.CreateNotificationConfigRequest{Name: "SMS alert", Channel: "sms"})

	assert.True(t, created.IsActive)
	assert.NotNil(t, created.Events)
	assert.NotNil(t, created.Recipients)
	assert.Len(t, svc.List(bg), 4)
}

func TestNotificationConfigService_UpdateAndGet(t *testing.T) {
	svc := newNotificationConfigService()

	_, err := svc.Update(bg, 3, &models.NotificationConfigPatch{IsActive: ptr(true)})
	require.NoError(t, err)

	got, err := svc.Get(bg, 3)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.Equal(t, "webhook", got.Channel)
}

func TestNotificationConfigService_MissingID(t *testing.T) {
	svc := newNotificationConfigService()

	_, err := svc.Get(bg, 77)
	assertStatus(t, err, http.StatusNotFound)

	_, err = svc.Update(bg, 77, &models.NotificationConfigPatch{Name: ptr("x")})
	assertStatus(t, err, http.StatusNotFound)

	svc.Delete(bg, 77)
	assert.Len(t, svc.List(bg), 3)
}
