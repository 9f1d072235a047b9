package store

import (
	"fmt"
	"time"

	"github.com/aibizeyes/admin-gateway/internal/models"
)

type seedData struct {
	users                []models.User
	systemLogs           []models.SystemLog
	fetchLogs            []models.FetchLog
	notificationConfigs  []models.NotificationConfig
	reportConfigs        []models.ReportConfig
	systemConfigs        []models.SystemConfig
	backups              []models.BackupInfo
	auditLogs            []models.AuditLog
	notifications        []models.Notification
	reports              []models.Report
	bids                 []models.Bid
	auditSettings        models.AuditSettings
	notificationSettings models.NotificationSettings
}

var (
	bidCategories = []string{"construction", "it_services", "medical", "education", "energy", "transport"}
	bidRegions    = []string{"Beijing", "Shanghai", "Guangdong", "Zhejiang", "Sichuan", "Hubei", "Jiangsu"}
	bidSources    = []string{"ccgp.gov.cn", "ggzy.gov.cn", "chinabidding.com"}
)

// buildSeed produces the mock data set anchored at the start of ref's day.
func buildSeed(ref time.Time) seedData {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	ago := func(d time.Duration) time.Time { return day.Add(-d) }
	at := func(d time.Duration) *time.Time { t := day.Add(-d); return &t }
	base := func(id int64, created time.Time) models.Base {
		return models.Base{ID: id, CreatedAt: created}
	}
	uid := func(id int64) *int64 { return &id }
	const h = time.Hour
	const d = 24 * time.Hour

	var s seedData

	s.users = []models.User{
		{Base: base(1, ago(180*d)), Username: "admin", Email: "admin@bizeyes.cn", FullName: "System Administrator",
			Role: models.RoleAdmin, Organization: "AI Biz Eyes", IsActive: true, LastLoginAt: at(2 * h)},
		{Base: base(2, ago(120*d)), Username: "zhang.wei", Email: "zhang.wei@bizeyes.cn", FullName: "Zhang Wei",
			Role: models.RoleManager, Organization: "Sales Department", IsActive: true, LastLoginAt: at(26 * h)},
		{Base: base(3, ago(30*d)), Username: "li.na", Email: "li.na@partner.com", FullName: "Li Na",
			Role: models.RoleUser, Organization: "Partner Co.", IsActive: false},
	}

	s.systemLogs = []models.SystemLog{
		{Base: base(1, ago(1*h)), Level: models.LogLevelInfo, Module: "auth", Action: "login", Message: "User admin logged in", UserID: uid(1), IP: "10.0.0.12", UserAgent: "Mozilla/5.0"},
		{Base: base(2, ago(3*h)), Level: models.LogLevelWarning, Module: "fetch", Action: "timeout", Message: "Source ggzy.gov.cn responded slowly", IP: "127.0.0.1"},
		{Base: base(3, ago(5*h)), Level: models.LogLevelError, Module: "fetch", Action: "crawl", Message: "Source chinabidding.com returned 503", IP: "127.0.0.1"},
		{Base: base(4, ago(8*h)), Level: models.LogLevelInfo, Module: "backup", Action: "create", Message: "Scheduled backup completed", IP: "127.0.0.1"},
		{Base: base(5, ago(26*h)), Level: models.LogLevelInfo, Module: "user", Action: "update", Message: "User zhang.wei updated", UserID: uid(1), IP: "10.0.0.12", UserAgent: "Mozilla/5.0"},
		{Base: base(6, ago(30*h)), Level: models.LogLevelDebug, Module: "notification", Action: "dispatch", Message: "Dispatched 12 notifications", IP: "127.0.0.1"},
		{Base: base(7, ago(3*d)), Level: models.LogLevelWarning, Module: "auth", Action: "login", Message: "Failed login attempt for li.na", IP: "203.0.113.7", UserAgent: "curl/8.4.0"},
		{Base: base(8, ago(10*d)), Level: models.LogLevelInfo, Module: "report", Action: "generate", Message: "Weekly bid analysis generated", IP: "127.0.0.1"},
		{Base: base(9, ago(45*d)), Level: models.LogLevelInfo, Module: "system", Action: "config", Message: "fetch.interval_minutes changed", UserID: uid(1), IP: "10.0.0.12"},
		{Base: base(10, ago(120*d)), Level: models.LogLevelError, Module: "system", Action: "startup", Message: "Database connection retried", IP: "127.0.0.1"},
	}

	s.fetchLogs = []models.FetchLog{
		fetchLog(1, "ccgp.gov.cn", models.FetchStatusSuccess, 128, "", 42_000, ago(1*h)),
		fetchLog(2, "ggzy.gov.cn", models.FetchStatusSuccess, 87, "", 65_500, ago(2*h)),
		fetchLog(3, "chinabidding.com", models.FetchStatusFailed, 0, "upstream returned 503 Service Unavailable", 3_200, ago(5*h)),
		fetchLog(4, "ccgp.gov.cn", models.FetchStatusRunning, 0, "", 0, ago(10*time.Minute)),
		fetchLog(5, "ggzy.gov.cn", models.FetchStatusFailed, 14, "parse error: unexpected table layout", 18_700, ago(26*h)),
		fetchLog(6, "chinabidding.com", models.FetchStatusSuccess, 56, "", 38_100, ago(28*h)),
		fetchLog(7, "ccgp.gov.cn", models.FetchStatusPending, 0, "", 0, ago(0)),
		fetchLog(8, "ggzy.gov.cn", models.FetchStatusSuccess, 102, "", 51_900, ago(3*d)),
	}

	s.notificationConfigs = []models.NotificationConfig{
		{Base: base(1, ago(90*d)), Name: "New tender alert", Channel: "email",
			Events: []string{"bid_new"}, Recipients: []string{"sales@bizeyes.cn"},
			Template: "New tender: {{title}} ({{region}})", IsActive: true},
		{Base: base(2, ago(60*d)), Name: "Deadline reminder", Channel: "in_app",
			Events: []string{"deadline"}, Recipients: []string{},
			Template: "{{title}} closes in {{days}} days", IsActive: true},
		{Base: base(3, ago(20*d)), Name: "Fetch failure webhook", Channel: "webhook",
			Events: []string{"fetch_failed"}, Recipients: []string{"https://hooks.example.com/bizeyes"},
			Template: "", IsActive: false},
	}

	s.reportConfigs = []models.ReportConfig{
		{Base: base(1, ago(90*d)), Name: "Daily digest", ReportType: "daily", Schedule: "0 8 * * *",
			Format: "pdf", Recipients: []string{"management@bizeyes.cn"}, IsActive: true, LastGeneratedAt: at(16 * h)},
		{Base: base(2, ago(90*d)), Name: "Weekly market summary", ReportType: "weekly", Schedule: "0 9 * * 1",
			Format: "excel", Recipients: []string{"sales@bizeyes.cn", "zhang.wei@bizeyes.cn"}, IsActive: true, LastGeneratedAt: at(4 * d)},
		{Base: base(3, ago(15*d)), Name: "Monthly competitor review", ReportType: "monthly", Schedule: "0 7 1 * *",
			Format: "csv", Recipients: []string{}, IsActive: false},
	}

	s.systemConfigs = []models.SystemConfig{
		sysConfig(1, "site.name", "AI Biz Eyes", "string", "general", "Display name of the console", true, ago(180*d)),
		sysConfig(2, "fetch.interval_minutes", "30", "int", "fetch", "Minutes between crawls of each source", true, ago(180*d)),
		sysConfig(3, "fetch.enabled_sources", `["ccgp.gov.cn","ggzy.gov.cn","chinabidding.com"]`, "json", "fetch", "Sources crawled for tenders", true, ago(180*d)),
		sysConfig(4, "notification.email_enabled", "true", "bool", "notification", "Send notification emails", true, ago(180*d)),
		sysConfig(5, "security.session_timeout_hours", "24", "int", "security", "Bearer token lifetime", true, ago(180*d)),
		sysConfig(6, "security.password_min_length", "8", "int", "security", "Minimum password length", false, ago(180*d)),
		sysConfig(7, "backup.retention_count", "10", "int", "backup", "Completed backups kept", true, ago(180*d)),
		sysConfig(8, "system.version", "1.4.2", "string", "general", "Deployed version", false, ago(180*d)),
	}

	s.backups = []models.BackupInfo{
		{Base: base(1, ago(1*d-3*h)), Name: "scheduled-full", BackupType: "full", Status: models.BackupStatusCompleted,
			SizeBytes: 52_428_800, Checksum: "9b2f0d0e5c1a4f6e", CreatedBy: "scheduler", CompletedAt: at(1*d - 3*h - 4*time.Minute)},
		{Base: base(2, ago(2*d-3*h)), Name: "scheduled-full", BackupType: "full", Status: models.BackupStatusCompleted,
			SizeBytes: 51_380_224, Checksum: "4c8e21a7f03d9b11", CreatedBy: "scheduler", CompletedAt: at(2*d - 3*h - 4*time.Minute)},
		{Base: base(3, ago(5*d)), Name: "pre-upgrade", BackupType: "incremental", Status: models.BackupStatusFailed,
			CreatedBy: "admin", ErrorMessage: "disk quota exceeded"},
	}

	s.auditLogs = []models.AuditLog{
		auditLog(1, uid(1), "admin", "user.update", "user", "2", models.SeverityMedium, models.AuditStatusSuccess, "role changed to manager", ago(2*h)),
		auditLog(2, uid(1), "admin", "config.update", "system_config", "2", models.SeverityHigh, models.AuditStatusSuccess, "fetch.interval_minutes 60 -> 30", ago(6*h)),
		auditLog(3, nil, "li.na", "auth.login", "session", "", models.SeverityHigh, models.AuditStatusFailure, "invalid password", ago(3*d)),
		auditLog(4, uid(2), "zhang.wei", "report.generate", "report", "1", models.SeverityLow, models.AuditStatusSuccess, "", ago(4*d)),
		auditLog(5, uid(1), "admin", "backup.create", "backup", "3", models.SeverityMedium, models.AuditStatusFailure, "disk quota exceeded", ago(5*d)),
		auditLog(6, uid(1), "admin", "user.delete", "user", "4", models.SeverityCritical, models.AuditStatusSuccess, "removed stale account", ago(9*d)),
		auditLog(7, uid(2), "zhang.wei", "notification_config.update", "notification_config", "1", models.SeverityLow, models.AuditStatusSuccess, "", ago(12*d)),
		auditLog(8, uid(1), "admin", "data.export", "audit_log", "", models.SeverityMedium, models.AuditStatusSuccess, "csv export", ago(20*d)),
	}

	s.notifications = []models.Notification{
		notification(1, "New tender: Municipal hospital equipment", "A medical equipment tender was published in Shanghai.", "bid_new", "high", models.NotificationUnread, "3", ago(30*time.Minute)),
		notification(2, "Deadline approaching", "Data center expansion closes in 3 days.", "deadline", "urgent", models.NotificationUnread, "2", ago(2*h)),
		notification(3, "Tender updated", "Budget revised for school renovation.", "bid_update", "medium", models.NotificationRead, "4", ago(5*h)),
		notification(4, "Fetch failed", "chinabidding.com returned 503.", "system", "low", models.NotificationUnread, "", ago(5*h)),
		notification(5, "New tender: Solar farm EPC", "An energy tender was published in Sichuan.", "bid_new", "medium", models.NotificationRead, "5", ago(26*h)),
		notification(6, "Weekly report ready", "Weekly market summary is available.", "system", "low", models.NotificationArchived, "", ago(4*d)),
		notification(7, "Deadline approaching", "Metro signalling upgrade closes tomorrow.", "deadline", "high", models.NotificationRead, "6", ago(6*d)),
		notification(8, "Tender updated", "Clarification issued for highway maintenance.", "bid_update", "low", models.NotificationUnread, "7", ago(8*d)),
	}
	for i := range s.notifications {
		if s.notifications[i].Status != models.NotificationUnread {
			s.notifications[i].ReadAt = at(day.Sub(s.notifications[i].CreatedAt) - 10*time.Minute)
		}
	}

	s.reports = []models.Report{
		{Base: base(1, ago(4*d)), Title: "Weekly bid analysis", ReportType: "bid_analysis", Status: models.ReportStatusCompleted,
			Format: "pdf", Period: "week", StartDate: dateOf(ago(11 * d)), EndDate: dateOf(ago(4 * d)),
			GeneratedBy: "zhang.wei", FileSize: 248_320, CompletedAt: at(4*d - 2*time.Minute)},
		{Base: base(2, ago(10*d)), Title: "Market trend Q3", ReportType: "market_trend", Status: models.ReportStatusCompleted,
			Format: "excel", Period: "quarter", GeneratedBy: "admin", FileSize: 96_512, CompletedAt: at(10*d - 5*time.Minute)},
		{Base: base(3, ago(1*d)), Title: "Competitor landscape", ReportType: "competitor", Status: models.ReportStatusFailed,
			Format: "pdf", Period: "month", GeneratedBy: "admin", ErrorMessage: "upstream analytics unavailable"},
		{Base: base(4, ago(1*h)), Title: "Team performance", ReportType: "performance", Status: models.ReportStatusPending,
			Format: "csv", Period: "month", GeneratedBy: "zhang.wei"},
	}

	s.bids = seedBids(day)

	s.auditSettings = models.AuditSettings{
		Enabled:          true,
		RetentionDays:    90,
		LogLevel:         models.LogLevelInfo,
		AlertThreshold:   5,
		NotifyOnCritical: true,
		ExcludedActions:  []string{},
	}
	s.notificationSettings = models.NotificationSettings{
		EmailEnabled:    true,
		SMSEnabled:      false,
		PushEnabled:     true,
		Frequency:       "realtime",
		QuietHoursStart: "22:00",
		QuietHoursEnd:   "08:00",
		Types:           []string{"bid_new", "bid_update", "deadline", "system"},
	}

	return s
}

// seedBids spreads 30 tenders over the last 30 days with deadlines from
// two weeks ago to a month ahead.
func seedBids(day time.Time) []models.Bid {
	titles := []string{
		"Municipal hospital equipment", "Data center expansion", "School renovation",
		"Solar farm EPC", "Metro signalling upgrade", "Highway maintenance",
		"Smart city platform", "Water treatment plant", "Campus network refresh", "Bus fleet electrification",
	}
	bids := make([]models.Bid, 0, 30)
	for i := range 30 {
		deadline := day.Add(time.Duration(i*3-14) * 24 * time.Hour).Add(17 * time.Hour)
		status := models.BidStatusOpen
		switch {
		case deadline.Before(day) && i%4 == 0:
			status = models.BidStatusAwarded
		case deadline.Before(day):
			status = models.BidStatusClosed
		case deadline.Before(day.Add(7 * 24 * time.Hour)):
			status = models.BidStatusClosing
		}
		bids = append(bids, models.Bid{
			Base:     models.Base{ID: int64(i + 1), CreatedAt: day.Add(-time.Duration(30-i) * 24 * time.Hour)},
			Title:    fmt.Sprintf("%s #%d", titles[i%len(titles)], i/len(titles)+1),
			Category: bidCategories[i%len(bidCategories)],
			Region:   bidRegions[i%len(bidRegions)],
			Source:   bidSources[i%len(bidSources)],
			Status:   status,
			Budget:   float64(500_000 + (i*7919)%4_500_000),
			Deadline: deadline,
		})
	}
	return bids
}

func fetchLog(id int64, source, status string, items int, errMsg string, durationMs int64, started time.Time) models.FetchLog {
	l := models.FetchLog{
		Base:         models.Base{ID: id, CreatedAt: started},
		Source:       source,
		URL:          "https://" + source + "/api/tenders",
		Status:       status,
		ItemsFetched: items,
		ErrorMessage: errMsg,
		DurationMs:   durationMs,
		StartedAt:    started,
	}
	if status == models.FetchStatusSuccess || status == models.FetchStatusFailed {
		finished := started.Add(time.Duration(durationMs) * time.Millisecond)
		l.FinishedAt = &finished
	}
	return l
}

func sysConfig(id int64, key, value, valueType, category, desc string, editable bool, created time.Time) models.SystemConfig {
	return models.SystemConfig{
		Base:        models.Base{ID: id, CreatedAt: created},
		Key:         key,
		Value:       value,
		ValueType:   valueType,
		Category:    category,
		Description: desc,
		IsEditable:  editable,
	}
}

func auditLog(id int64, userID *int64, username, action, resource, resourceID, severity, status, details string, created time.Time) models.AuditLog {
	return models.AuditLog{
		Base:       models.Base{ID: id, CreatedAt: created},
		UserID:     userID,
		Username:   username,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Severity:   severity,
		Status:     status,
		IP:         "10.0.0.12",
		Details:    details,
	}
}

func notification(id int64, title, content, typ, priority, status, relatedID string, created time.Time) models.Notification {
	return models.Notification{
		Base:      models.Base{ID: id, CreatedAt: created},
		Title:     title,
		Content:   content,
		Type:      typ,
		Priority:  priority,
		Status:    status,
		RelatedID: relatedID,
		UserID:    1,
	}
}

func dateOf(t time.Time) string {
	return t.Format(time.DateOnly)
}
