package models

import "time"

const (
	NotificationUnread   = "unread"
	NotificationRead     = "read"
	NotificationArchived = "archived"
)

// Notification is a message delivered to an operator, usually about a bid.
type Notification struct {
	Base
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Type      string     `json:"type"`     // bid_new, bid_update, deadline, system
	Priority  string     `json:"priority"` // low, medium, high, urgent
	Status    string     `json:"status"`   // unread, read, archived
	RelatedID string     `json:"relatedId,omitempty"`
	UserID    int64      `json:"userId"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
}

type BulkNotificationRequest struct {
	IDs    []int64 `json:"ids" binding:"required,min=1"`
	Action string  `json:"action" binding:"required,oneof=read unread archive delete"`
}

type BulkNotificationResult struct {
	Action   string  `json:"action"`
	Affected int     `json:"affected"`
	Missing  []int64 `json:"missing"`
}

// NotificationSettings are the operator's delivery preferences.
type NotificationSettings struct {
	EmailEnabled    bool     `json:"emailEnabled"`
	SMSEnabled      bool     `json:"smsEnabled"`
	PushEnabled     bool     `json:"pushEnabled"`
	Frequency       string   `json:"frequency"` // realtime, hourly, daily
	QuietHoursStart string   `json:"quietHoursStart"`
	QuietHoursEnd   string   `json:"quietHoursEnd"`
	Types           []string `json:"types"`
}

type NotificationSettingsPatch struct {
	EmailEnabled    *bool     `json:"emailEnabled"`
	SMSEnabled      *bool     `json:"smsEnabled"`
	PushEnabled     *bool     `json:"pushEnabled"`
	Frequency       *string   `json:"frequency" binding:"omitempty,oneof=realtime hourly daily"`
	QuietHoursStart *string   `json:"quietHoursStart" binding:"omitempty,datetime=15:04"`
	QuietHoursEnd   *string   `json:"quietHoursEnd" binding:"omitempty,datetime=15:04"`
	Types           *[]string `json:"types"`
}

func (p *NotificationSettingsPatch) Apply(s *NotificationSettings) {
	if p.EmailEnabled != nil {
		s.EmailEnabled = *p.EmailEnabled
	}
	if p.SMSEnabled != nil {
		s.SMSEnabled = *p.SMSEnabled
	}
	if p.PushEnabled != nil {
		s.PushEnabled = *p.PushEnabled
	}
	if p.Frequency != nil {
		s.Frequency = *p.Frequency
	}
	if p.QuietHoursStart != nil {
		s.QuietHoursStart = *p.QuietHoursStart
	}
	if p.QuietHoursEnd != nil {
		s.QuietHoursEnd = *p.QuietHoursEnd
	}
	if p.Types != nil {
		s.Types = nonNil(*p.Types)
	}
}

type NotificationStats struct {
	Total      int            `json:"total"`
	Unread     int            `json:"unread"`
	Read       int            `json:"read"`
	Archived   int            `json:"archived"`
	ByType     map[string]int `json:"byType"`
	ByPriority map[string]int `json:"byPriority"`
}
