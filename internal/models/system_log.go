package models

const (
	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// SystemLog represents a system operation log
type SystemLog struct {
	Base
	Level     string `json:"level"` // debug, info, warning, error
	Module    string `json:"module"`
	Action    string `json:"action"`
	Message   string `json:"message"`
	UserID    *int64 `json:"userId,omitempty"`
	IP        string `json:"ip"`
	UserAgent string `json:"userAgent"`
	Extra     string `json:"extra,omitempty"` // JSON extra data
}
