package models

import "time"

const (
	ReportStatusPending    = "pending"
	ReportStatusGenerating = "generating"
	ReportStatusCompleted  = "completed"
	ReportStatusFailed     = "failed"
)

// Report is a generated analysis document.
type Report struct {
	Base
	Title        string     `json:"title"`
	ReportType   string     `json:"reportType"` // bid_analysis, market_trend, competitor, performance
	Status       string     `json:"status"`     // pending, generating, completed, failed
	Format       string     `json:"format"`     // pdf, excel, csv
	Period       string     `json:"period"`
	StartDate    string     `json:"startDate,omitempty"`
	EndDate      string     `json:"endDate,omitempty"`
	GeneratedBy  string     `json:"generatedBy"`
	FileSize     int64      `json:"fileSize"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

type GenerateReportRequest struct {
	Title      string `json:"title" binding:"required,max=200"`
	ReportType string `json:"reportType" binding:"required,oneof=bid_analysis market_trend competitor performance"`
	Format     string `json:"format" binding:"omitempty,oneof=pdf excel csv"`
	Period     string `json:"period" binding:"omitempty,oneof=day week month quarter year custom"`
	StartDate  string `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate    string `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
}
