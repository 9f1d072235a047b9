package models

const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"

	AuditStatusSuccess = "success"
	AuditStatusFailure = "failure"
)

// AuditLog records an operator action for the data-quality audit trail.
type AuditLog struct {
	Base
	UserID     *int64 `json:"userId,omitempty"`
	Username   string `json:"username"`
	Action     string `json:"action"`
	Resource   string `json:"resource"`
	ResourceID string `json:"resourceId"`
	Severity   string `json:"severity"` // low, medium, high, critical
	Status     string `json:"status"`   // success, failure
	IP         string `json:"ip"`
	Details    string `json:"details"`
}

// AuditSettings controls what the audit trail records and keeps.
type AuditSettings struct {
	Enabled          bool     `json:"enabled"`
	RetentionDays    int      `json:"retentionDays"`
	LogLevel         string   `json:"logLevel"`
	AlertThreshold   int      `json:"alertThreshold"`
	NotifyOnCritical bool     `json:"notifyOnCritical"`
	ExcludedActions  []string `json:"excludedActions"`
}

type AuditSettingsPatch struct {
	Enabled          *bool     `json:"enabled"`
	RetentionDays    *int      `json:"retentionDays" binding:"omitempty,min=0,max=3650"`
	LogLevel         *string   `json:"logLevel" binding:"omitempty,oneof=debug info warning error"`
	AlertThreshold   *int      `json:"alertThreshold" binding:"omitempty,min=0"`
	NotifyOnCritical *bool     `json:"notifyOnCritical"`
	ExcludedActions  *[]string `json:"excludedActions"`
}

func (p *AuditSettingsPatch) Apply(s *AuditSettings) {
	if p.Enabled != nil {
		s.Enabled = *p.Enabled
	}
	if p.RetentionDays != nil {
		s.RetentionDays = *p.RetentionDays
	}
	if p.LogLevel != nil {
		s.LogLevel = *p.LogLevel
	}
	if p.AlertThreshold != nil {
		s.AlertThreshold = *p.AlertThreshold
	}
	if p.NotifyOnCritical != nil {
		s.NotifyOnCritical = *p.NotifyOnCritical
	}
	if p.ExcludedActions != nil {
		s.ExcludedActions = nonNil(*p.ExcludedActions)
	}
}

// QualityMetrics summarises the health of the ingested tender data.
type QualityMetrics struct {
	Completeness  float64 `json:"completeness"`
	Accuracy      float64 `json:"accuracy"`
	Timeliness    float64 `json:"timeliness"`
	Consistency   float64 `json:"consistency"`
	OverallScore  float64 `json:"overallScore"`
	TotalRecords  int     `json:"totalRecords"`
	IssuesFound   int     `json:"issuesFound"`
	LastCheckedAt string  `json:"lastCheckedAt"`
}

type QualityTrendPoint struct {
	Date  string  `json:"date"`
	Score float64 `json:"score"`
}

// QualityReport is the period summary shown on the quality screen.
type QualityReport struct {
	Period           string              `json:"period"`
	StartDate        string              `json:"startDate"`
	EndDate          string              `json:"endDate"`
	Metrics          QualityMetrics      `json:"metrics"`
	Trend            []QualityTrendPoint `json:"trend"`
	AuditsBySeverity map[string]int      `json:"auditsBySeverity"`
	FailedActions    int                 `json:"failedActions"`
	Recommendations  []string            `json:"recommendations"`
}
