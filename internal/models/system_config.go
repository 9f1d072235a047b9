package models

// SystemConfig represents system-wide configuration
type SystemConfig struct {
	Base
	Key         string `json:"key"`
	Value       string `json:"value"`
	ValueType   string `json:"valueType"` // string, int, bool, json
	Category    string `json:"category"`  // general, fetch, notification, security, backup
	Description string `json:"description"`
	IsEditable  bool   `json:"isEditable"`
}

type SystemConfigPatch struct {
	Value       *string `json:"value"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

func (p *SystemConfigPatch) Apply(c *SystemConfig) {
	if p.Value != nil {
		c.Value = *p.Value
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
}
