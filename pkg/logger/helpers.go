package logger

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// LogPost logs the outcome of a single pin post
func LogPost(filename, board, status, reason string, duration time.Duration) {
	fields := map[string]interface{}{
		"filename": filename,
		"board":    board,
		"status":   status,
		"duration": duration,
	}
	if reason != "" {
		fields["reason"] = reason
	}

	log := GetLogger()
	switch status {
	case "succeeded":
		log.InfoWithFields("Pin posted", fields)
	case "skipped":
		log.WarnWithFields("Pin skipped", fields)
	case "unknown":
		log.WarnWithFields("Pin outcome unknown", fields)
	default:
		log.ErrorWithFields("Pin failed", fields)
	}
}

// LogBatchProgress logs batch progress
func LogBatchProgress(posted, total int) {
	percentage := 0.0
	if total > 0 {
		percentage = float64(posted) / float64(total) * 100
	}

	GetLogger().WithFields(map[string]interface{}{
		"posted":     posted,
		"total":      total,
		"percentage": fmt.Sprintf("%.1f%%", percentage),
	}).Info("Batch progress")
}

// LogRateLimit logs rate limiting events
func LogRateLimit(waitSeconds float64) {
	GetLogger().WithFields(map[string]interface{}{
		"wait_seconds": fmt.Sprintf("%.1f", waitSeconds),
		"action":       "rate_limited",
	}).Warn("Posting rate cap reached, pausing")
}

// LogComponentStart logs when a component starts
func LogComponentStart(component string, config map[string]interface{}) {
	logger := GetLogger().WithField("component", component)

	if len(config) > 0 {
		logger = logger.WithFields(config)
	}

	logger.Info("Component started")
}

// LogComponentStop logs when a component stops
func LogComponentStop(component string, reason string) {
	GetLogger().WithFields(map[string]interface{}{
		"component": component,
		"reason":    reason,
	}).Info("Component stopped")
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

// nopLogger is a logger that does nothing (useful for testing)
type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) Fatal(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) WithContext(ctx context.Context) Logger                    { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) FatalWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger                               { return nil }
