package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/aibizeyes/admin-gateway/internal/config"
	"github.com/aibizeyes/admin-gateway/internal/models"
	"github.com/aibizeyes/admin-gateway/internal/store"
	"github.com/aibizeyes/admin-gateway/internal/upstream"
	"github.com/aibizeyes/admin-gateway/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// 2025-03-14 is a Friday.
var refTime = time.Date(2025, 3, 14, 15, 30, 0, 0, time.UTC)

func newTestStore() *store.Store {
	return store.NewAt(refTime, func() time.Time { return refTime })
}

// offline is an upstream client with no base URL, so every call is served
// from the mock store.
func offline() *upstream.Client {
	return upstream.NewClient(config.UpstreamConfig{})
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := models.InitDB(&config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, status, appErr.HTTPStatus)
}

var bg = context.Background()
