package services

import (
	"time"

	"github.com/6tail/lunar-go/HolidayUtil"
	"github.com/6tail/lunar-go/calendar"
	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/de"
	"github.com/rickar/cal/v2/gb"
	"github.com/rickar/cal/v2/jp"
	"github.com/rickar/cal/v2/us"
)

// CalendarService answers workday questions for bid deadline countdowns.
// CN follows the State Council schedule, including make-up working
// weekends; unknown countries count Monday to Friday.
type CalendarService struct {
	calendars map[string]*cal.BusinessCalendar
}

func NewCalendarService() *CalendarService {
	s := &CalendarService{
		calendars: make(map[string]*cal.BusinessCalendar),
	}
	s.calendars["US"] = newBusinessCalendar("United States", us.Holidays...)
	s.calendars["GB"] = newBusinessCalendar("United Kingdom", gb.Holidays...)
	s.calendars["DE"] = newBusinessCalendar("Germany", de.Holidays...)
	s.calendars["JP"] = newBusinessCalendar("Japan", jp.Holidays...)
	return s
}

func newBusinessCalendar(name string, holidays ...*cal.Holiday) *cal.BusinessCalendar {
	c := cal.NewBusinessCalendar()
	c.Name = name
	c.AddHoliday(holidays...)
	return c
}

func (s *CalendarService) IsWorkday(t time.Time, countryCode string) bool {
	if countryCode == "CN" {
		return isWorkdayChina(t)
	}
	c, ok := s.calendars[countryCode]
	if !ok {
		return !cal.IsWeekend(t)
	}
	return c.IsWorkday(t)
}

func isWorkdayChina(t time.Time) bool {
	solar := calendar.NewSolarFromDate(t)
	holiday := HolidayUtil.GetHolidayByYmd(solar.GetYear(), solar.GetMonth(), solar.GetDay())
	if holiday != nil {
		return holiday.IsWork()
	}
	return !cal.IsWeekend(t)
}

// BusinessDaysLeft counts the workdays after from's day up to and including
// to's day. A deadline already passed yields a negative count of the
// workdays since.
func (s *CalendarService) BusinessDaysLeft(from, to time.Time, countryCode string) int {
	start := truncateDay(from)
	end := truncateDay(to)
	if end.Equal(start) {
		return 0
	}

	sign := 1
	if end.Before(start) {
		start, end = end, start
		sign = -1
	}

	n := 0
	for d := start.AddDate(0, 0, 1); !d.After(end); d = d.AddDate(0, 0, 1) {
		if s.IsWorkday(d, countryCode) {
			n++
		}
	}
	return sign * n
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
