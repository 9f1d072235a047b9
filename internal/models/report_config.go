package models

import "time"

// ReportConfig schedules recurring report generation.
type ReportConfig struct {
	Base
	Name            string     `json:"name"`
	ReportType      string     `json:"reportType"` // daily, weekly, monthly, custom
	Schedule        string     `json:"schedule"`   // cron expression
	Format          string     `json:"format"`     // pdf, excel, csv
	Recipients      []string   `json:"recipients"`
	IsActive        bool       `json:"isActive"`
	LastGeneratedAt *time.Time `json:"lastGeneratedAt,omitempty"`
}

type CreateReportConfigRequest struct {
	Name       string   `json:"name" binding:"required,max=100"`
	ReportType string   `json:"reportType" binding:"required,oneof=daily weekly monthly custom"`
	Schedule   string   `json:"schedule" binding:"required,cronspec"`
	Format     string   `json:"format" binding:"omitempty,oneof=pdf excel csv"`
	Recipients []string `json:"recipients"`
	IsActive   *bool    `json:"isActive"`
}

type ReportConfigPatch struct {
	Name       *string   `json:"name" binding:"omitempty,max=100"`
	ReportType *string   `json:"reportType" binding:"omitempty,oneof=daily weekly monthly custom"`
	Schedule   *string   `json:"schedule" binding:"omitempty,cronspec"`
	Format     *string   `json:"format" binding:"omitempty,oneof=pdf excel csv"`
	Recipients *[]string `json:"recipients"`
	IsActive   *bool     `json:"isActive"`
}

func (p *ReportConfigPatch) Apply(c *ReportConfig) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.ReportType != nil {
		c.ReportType = *p.ReportType
	}
	if p.Schedule != nil {
		c.Schedule = *p.Schedule
	}
	if p.Format != nil {
		c.Format = *p.Format
	}
	if p.Recipients != nil {
		c.Recipients = nonNil(*p.Recipients)
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
}
