package models

// NotificationConfig routes domain events to a delivery channel.
type NotificationConfig struct {
	Base
	Name       string   `json:"name"`
	Channel    string   `json:"channel"` // email, sms, webhook, in_app
	Events     []string `json:"events"`
	Recipients []string `json:"recipients"`
	Template   string   `json:"template"`
	IsActive   bool     `json:"isActive"`
}

type CreateNotificationConfigRequest struct {
	Name       string   `json:"name" binding:"required,max=100"`
	Channel    string   `json:"channel" binding:"required,oneof=email sms webhook in_app"`
	Events     []string `json:"events"`
	Recipients []string `json:"recipients"`
	Template   string   `json:"template"`
	IsActive   *bool    `json:"isActive"`
}

type NotificationConfigPatch struct {
	Name       *string   `json:"name" binding:"omitempty,max=100"`
	Channel    *string   `json:"channel" binding:"omitempty,oneof=email sms webhook in_app"`
	Events     *[]string `json:"events"`
	Recipients *[]string `json:"recipients"`
	Template   *string   `json:"template"`
	IsActive   *bool     `json:"isActive"`
}

func (p *NotificationConfigPatch) Apply(c *NotificationConfig) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Channel != nil {
		c.Channel = *p.Channel
	}
	if p.Events != nil {
		c.Events = nonNil(*p.Events)
	}
	if p.Recipients != nil {
		c.Recipients = nonNil(*p.Recipients)
	}
	if p.Template != nil {
		c.Template = *p.Template
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
