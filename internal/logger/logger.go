package logger

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"os"
	"runtime/debug"
	"time"
)

// Logger emits structured JSON log entries for one service mode.
type Logger struct {
	service  string
	hostname string
	handler  *slog.Logger
}

// New creates a logger that writes JSON entries to stdout.
func New(service string) *Logger {
	hostname, _ := os.Hostname()

	handler := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	return &Logger{
		service:  service,
		hostname: hostname,
		handler:  handler,
	}
}

// GenerateRequestID returns a random hex identifier for request correlation.
func GenerateRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(buf)
}

func (l *Logger) log(level slog.Level, action, requestID, message string, err error, fields map[string]any) {
	attrs := []slog.Attr{
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		slog.String("service", l.service),
		slog.String("hostname", l.hostname),
		slog.String("action", action),
		slog.String("request_id", requestID),
	}
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	if err != nil {
		attrs = append(attrs, slog.Group("error",
			slog.String("msg", err.Error()),
			slog.String("stack", string(debug.Stack())),
		))
	}
	l.handler.LogAttrs(context.TODO(), level, message, attrs...)
}

func (l *Logger) Info(action, requestID, message string, fields map[string]any) {
	l.log(slog.LevelInfo, action, requestID, message, nil, fields)
}

func (l *Logger) Debug(action, requestID, message string, fields map[string]any) {
	l.log(slog.LevelDebug, action, requestID, message, nil, fields)
}

func (l *Logger) Error(action, requestID, message string, err error, fields map[string]any) {
	l.log(slog.LevelError, action, requestID, message, err, fields)
}
