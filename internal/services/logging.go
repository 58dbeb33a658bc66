package services

import (
	"context"
	"log/slog"
	"time"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
}

type LogConfig struct {
	Service   string
	Component string
}

func NewServiceLogger(logger *slog.Logger, config LogConfig) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", config.Service, "component", config.Component),
	}
}

// LogOperation records one service operation with its outcome and duration.
// Expected rejections log below error level so alerting stays on real faults.
func (l *ServiceLogger) LogOperation(ctx context.Context, operation, studentID, subject string, duration time.Duration, err error) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"
		if IsValidation(err) || IsBusinessRule(err) {
			level = slog.LevelWarn
			status = "validation_error"
		} else if IsNotFound(err) {
			level = slog.LevelInfo
			status = "not_found"
		} else if IsConflict(err) {
			level = slog.LevelWarn
			status = "conflict"
		}
	}

	attrs := []any{
		"operation", operation,
		"student_id", studentID,
		"subject", subject,
		"status", status,
		"duration", duration,
	}
	if err != nil {
		attrs = append(attrs, "error", err.Error())
	}

	l.logger.Log(ctx, level, "Service operation", attrs...)
}
