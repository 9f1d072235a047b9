package services

import (
	"net/http"
	"testing"

	"github.com/aibizeyes/admin-gateway/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSystemConfigService() *SystemConfigService {
	st := newTestStore()
	return NewSystemConfigService(st, offline(), NewSystemLogger(st))
}

func TestSystemConfigService_ListByCategory(t *testing.T) {
	svc := newSystemConfigService()

	configs := svc.List(bg, &SystemConfigListRequest{Category: "security"})

	require.Len(t, configs, 2)
	for _, c := range configs {
		assert.Equal(t, "security", c.Category)
	}
}

func TestSystemConfigService_GetWithDefault(t *testing.T) {
	svc := newSystemConfigService()

	assert.Equal(t, "AI Biz Eyes", svc.GetWithDefault("site.name", "x"))
	assert.Equal(t, "fallback", svc.GetWithDefault("missing.key", "fallback"))

	assert.Equal(t, 10, svc.IntWithDefault("backup.retention_count", 3))
	assert.Equal(t, 3, svc.IntWithDefault("missing.key", 3))
	assert.Equal(t, 3, svc.IntWithDefault("site.name", 3))
}

func TestSystemConfigService_UpdateValidatesValueType(t *testing.T) {
	svc := newSystemConfigService()

	_, err := svc.Update(bg, 2, &models.SystemConfigPatch{Value: ptr("thirty")})
	assertStatus(t, err, http.StatusBadRequest)

	updated, err := svc.Update(bg, 2, &models.SystemConfigPatch{Value: ptr("45")})
	require.NoError(t, err)
	assert.Equal(t, "45", updated.Value)
}

func TestSystemConfigService_UpdateReadOnlyForbidden(t *testing.T) {
	svc := newSystemConfigService()

	_, err := svc.Update(bg, 8, &models.SystemConfigPatch{Value: ptr("2.0.0")})
	assertStatus(t, err, http.StatusForbidden)
}

func TestSystemConfigService_UpdateMissingNotFound(t *testing.T) {
	svc := newSystemConfigService()

	_, err := svc.Update(bg, 99, &models.SystemConfigPatch{Value: ptr("1")})
	assertStatus(t, err, http.StatusNotFound)
}

func TestValidateConfigValue(t *testing.T) {
	tests := []struct {
		valueType string
		value     string
		wantErr   bool
	}{
		{"int", "42", false},
		{"int", " 7 ", false},
		{"int", "4.2", true},
		{"bool", "true", false},
		{"bool", "yes", true},
		{"json", `{"a":1}`, false},
		{"json", `{"a":`, true},
		{"string", "anything", false},
	}
	for _, tt := range tests {
		t.Run(tt.valueType+"/"+tt.value, func(t *testing.T) {
			err := ValidateConfigValue(tt.valueType, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
