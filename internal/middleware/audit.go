package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aibizeyes/admin-gateway/internal/models"
	"github.com/gin-gonic/gin"
)

const (
	maxAuditBody = 2000
	// maxAuditCapture bounds how much of a request body is buffered for
	// masking. Larger bodies reach the handler intact but are not recorded.
	maxAuditCapture = 1 << 20
)

var sensitiveKeys = map[string]bool{
	"password":     true,
	"apikey":       true,
	"api_key":      true,
	"secret":       true,
	"token":        true,
	"access_token": true,
}

// AuditRecorder appends to the audit trail and reports whether the entry
// was kept.
type AuditRecorder interface {
	Record(entry models.AuditLog) bool
}

// replayBody serves the captured prefix of a request body followed by the
// rest of the original stream.
type replayBody struct {
	io.Reader
	io.Closer
}

// AuditTrail records every write (POST/PUT/PATCH/DELETE) that passes through
// it. Sensitive body fields are masked.
func AuditTrail(rec AuditRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method != http.MethodPost && method != http.MethodPut && method != http.MethodPatch && method != http.MethodDelete {
			c.Next()
			return
		}

		var body string
		if c.Request.Body != nil {
			orig := c.Request.Body
			raw, _ := io.ReadAll(io.LimitReader(orig, maxAuditCapture+1))
			c.Request.Body = replayBody{Reader: io.MultiReader(bytes.NewReader(raw), orig), Closer: orig}
			if len(raw) > maxAuditCapture {
				body = "[body over " + strconv.Itoa(maxAuditCapture) + " bytes]"
			} else {
				body = maskBody(raw)
			}
		}

		c.Next()

		resource, verb := parseRouteInfo(c.FullPath(), method)
		status := models.AuditStatusSuccess
		if c.Writer.Status() >= http.StatusBadRequest {
			status = models.AuditStatusFailure
		}

		entry := models.AuditLog{
			Username:   GetUsername(c),
			Action:     resource + "." + verb,
			Resource:   resource,
			ResourceID: c.Param("id"),
			Severity:   severityOf(method, status),
			Status:     status,
			IP:         c.ClientIP(),
			Details:    body,
		}
		if id := GetUserID(c); id > 0 {
			entry.UserID = &id
		}
		rec.Record(entry)
	}
}

// parseRouteInfo derives the audited resource and verb from a gin route.
// "/api/admin/system-configs/:id" + PUT gives ("system_config", "update");
// "/api/admin/fetch-logs/:id/retry" + POST gives ("fetch_log", "retry").
func parseRouteInfo(fullPath, method string) (resource, verb string) {
	var static []string
	for _, seg := range strings.Split(fullPath, "/") {
		if seg == "" || seg == "api" || seg == "admin" || strings.HasPrefix(seg, ":") || strings.HasPrefix(seg, "*") {
			continue
		}
		static = append(static, strings.ReplaceAll(seg, "-", "_"))
	}
	if len(static) == 0 {
		return "unknown", strings.ToLower(method)
	}

	resource = strings.TrimSuffix(static[0], "s")
	if len(static) > 1 {
		return resource, static[len(static)-1]
	}
	switch method {
	case http.MethodPost:
		verb = "create"
	case http.MethodPut, http.MethodPatch:
		verb = "update"
	case http.MethodDelete:
		verb = "delete"
	}
	return resource, verb
}

func severityOf(method, status string) string {
	switch {
	case method == http.MethodDelete:
		return models.SeverityHigh
	case status == models.AuditStatusFailure:
		return models.SeverityMedium
	case method == http.MethodPost:
		return models.SeverityLow
	default:
		return models.SeverityMedium
	}
}

// maskBody renders a request body for the audit trail with sensitive JSON
// values replaced, truncated to maxAuditBody. Non-JSON bodies are kept only
// as a size note.
func maskBody(raw []byte) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return "[" + strconv.Itoa(len(raw)) + " bytes]"
	}
	masked, err := json.Marshal(maskValue(v))
	if err != nil {
		return ""
	}
	return truncateUTF8(string(masked), maxAuditBody)
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "...[truncated]"
}

func maskValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, inner := range t {
			if sensitiveKeys[strings.ToLower(k)] {
				t[k] = "***"
				continue
			}
			t[k] = maskValue(inner)
		}
		return t
	case []interface{}:
		for i := range t {
			t[i] = maskValue(t[i])
		}
		return t
	default:
		return v
	}
}
