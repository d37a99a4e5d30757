// Package security provides structured JSON logging for the packet tracker.
// Every entry is a single JSON object so logs can be shipped straight into a
// log aggregator without extra parsing.
package security

import (
	"encoding/json"
	"log"
	"os"
	"time"
)

// LogLevel is the severity of a log entry.
type LogLevel string

// Log levels in increasing severity. Security events use their own level so
// they can be filtered independently of operational noise.
const (
	LogLevelInfo     LogLevel = "INFO"
	LogLevelWarning  LogLevel = "WARNING"
	LogLevelError    LogLevel = "ERROR"
	LogLevelCritical LogLevel = "CRITICAL"
	LogLevelSecurity LogLevel = "SECURITY"
)

// EventType identifies a security-relevant event.
type EventType string

// Security events emitted by the handlers and the sign flow.
const (
	EventLoginSuccess      EventType = "login_success"
	EventLoginFailure      EventType = "login_failure"
	EventAccountLocked     EventType = "account_locked"
	EventRateLimitExceeded EventType = "rate_limit_exceeded"
	EventPacketSigned      EventType = "packet_signed"
	EventRepeatSignature   EventType = "repeat_signature"
	EventPacketComplete    EventType = "packet_complete"
)

// LogEntry is the JSON shape of every log line.
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     LogLevel               `json:"level"`
	Message   string                 `json:"message"`
	Error     string                 `json:"error,omitempty"`
	EventType EventType              `json:"event_type,omitempty"`
	Actor     string                 `json:"actor,omitempty"`
	IPAddress string                 `json:"ip_address,omitempty"`
	UserAgent string                 `json:"user_agent,omitempty"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
}

// Logger writes structured JSON log entries.
type Logger struct {
	output *log.Logger
}

// NewLogger creates a logger writing to stdout.
func NewLogger() *Logger {
	return &Logger{
		output: log.New(os.Stdout, "", 0),
	}
}

func (l *Logger) write(entry LogEntry) {
	entry.Timestamp = time.Now().UTC()

	data, err := json.Marshal(entry)
	if err != nil {
		// Marshal of LogEntry can only fail on a bad Extra value; fall back
		// to the raw message so nothing is silently dropped.
		l.output.Printf(`{"timestamp":%q,"level":"ERROR","message":"failed to marshal log entry: %s"}`,
			entry.Timestamp.Format(time.RFC3339), entry.Message)
		return
	}

	l.output.Println(string(data))
}

// Info logs an informational message.
func (l *Logger) Info(message string) {
	l.write(LogEntry{Level: LogLevelInfo, Message: message})
}

// Warn logs a warning message.
func (l *Logger) Warn(message string) {
	l.write(LogEntry{Level: LogLevelWarning, Message: message})
}

// Error logs an error with its cause. err may be nil.
func (l *Logger) Error(message string, err error) {
	entry := LogEntry{Level: LogLevelError, Message: message}
	if err != nil {
		entry.Error = err.Error()
	}
	l.write(entry)
}

// Critical logs a failure that requires operator attention. err may be nil.
func (l *Logger) Critical(message string, err error) {
	entry := LogEntry{Level: LogLevelCritical, Message: message}
	if err != nil {
		entry.Error = err.Error()
	}
	l.write(entry)
}

// SecurityEvent logs a security-relevant event with actor and request
// attribution plus free-form extra fields.
func (l *Logger) SecurityEvent(eventType EventType, actor, ipAddress, userAgent string, extra map[string]interface{}) {
	l.write(LogEntry{
		Level:     LogLevelSecurity,
		Message:   string(eventType),
		EventType: eventType,
		Actor:     actor,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Extra:     extra,
	})
}
