package log

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"mmcatalog/internal/domain"
)

// Line is one structured log record. Every record is a single JSON object
// written through the std logger, so LOG_FILE redirection applies to it.
type Line struct {
	TS        string         `json:"ts"`
	Level     string         `json:"level"`
	ReqID     string         `json:"req_id,omitempty"`
	IP        string         `json:"ip,omitempty"`
	Method    string         `json:"method,omitempty"`
	Path      string         `json:"path,omitempty"`
	Lang      string         `json:"lang,omitempty"`
	UserID    string         `json:"user_id,omitempty"`
	Action    string         `json:"action,omitempty"`
	Status    int            `json:"status,omitempty"`
	LatencyMs int64          `json:"latency_ms,omitempty"`
	Err       string         `json:"err,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

func newLine(level string, c *fiber.Ctx, action string, err error, fields map[string]any) Line {
	l := Line{TS: time.Now().UTC().Format(time.RFC3339Nano), Level: level, Action: action, Fields: fields}
	if err != nil {
		l.Err = err.Error()
	}
	if c == nil {
		return l
	}
	l.IP = c.IP()
	l.Method = c.Method()
	l.Path = c.Path()
	l.Status = c.Response().StatusCode()
	if rid, ok := c.Locals("requestid").(string); ok {
		l.ReqID = rid
	}
	if lang, ok := c.Locals("lang").(string); ok {
		l.Lang = lang
	}
	if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
		l.UserID = u.ID
	}
	if start, ok := c.Locals("start").(time.Time); ok {
		l.LatencyMs = time.Since(start).Milliseconds()
	}
	return l
}

func emit(l Line) {
	b, _ := json.Marshal(l)
	log.Println(string(b))
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	emit(newLine("info", c, action, nil, fields))
}

// Audit records an admin mutation.
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	emit(newLine("audit", c, action, nil, fields))
}

// Security records denied access, throttling and probing.
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	emit(newLine("warn", c, action, nil, fields))
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	emit(newLine("error", c, action, err, fields))
}

// Store reports a storage failure that was swallowed instead of returned.
func Store(action string, err error, fields map[string]any) {
	emit(newLine("error", nil, action, err, fields))
}
