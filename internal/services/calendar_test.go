package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func TestCalendarService_IsWorkday(t *testing.T) {
	svc := NewCalendarService()

	tests := []struct {
		name    string
		day     time.Time
		country string
		want    bool
	}{
		{"weekday without calendar", date(2025, 3, 14), "NONE", true},
		{"weekend without calendar", date(2025, 3, 15), "NONE", false},
		{"US independence day", date(2025, 7, 4), "US", false},
		{"CN spring festival", date(2025, 1, 29), "CN", false},
		{"CN make-up working sunday", date(2025, 1, 26), "CN", true},
		{"CN ordinary monday", date(2025, 3, 17), "CN", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.IsWorkday(tt.day, tt.country))
		})
	}
}

func TestCalendarService_BusinessDaysLeft(t *testing.T) {
	svc := NewCalendarService()
	friday := date(2025, 3, 14)

	assert.Equal(t, 0, svc.BusinessDaysLeft(friday, friday.Add(5*time.Hour), "NONE"))
	assert.Equal(t, 0, svc.BusinessDaysLeft(friday, date(2025, 3, 16), "NONE"))
	assert.Equal(t, 1, svc.BusinessDaysLeft(friday, date(2025, 3, 17), "NONE"))
	assert.Equal(t, 5, svc.BusinessDaysLeft(friday, date(2025, 3, 21), "NONE"))
	assert.Equal(t, -5, svc.BusinessDaysLeft(friday, date(2025, 3, 7), "NONE"))
}

func TestCalendarService_BusinessDaysLeftSkipsHolidays(t *testing.T) {
	svc := NewCalendarService()

	// Thursday 3 July to Monday 7 July 2025: the 4th is a US holiday.
	assert.Equal(t, 1, svc.BusinessDaysLeft(date(2025, 7, 3), date(2025, 7, 7), "US"))
	assert.Equal(t, 2, svc.BusinessDaysLeft(date(2025, 7, 3), date(2025, 7, 7), "NONE"))
}
