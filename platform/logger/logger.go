// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Context key types for storing values in context
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// BrandIDKey is the context key for the tenant brand ID
	BrandIDKey contextKey = "brand_id"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithContext returns a logger with context values extracted.
// Supports request_id and brand_id from context.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	newLogger := l

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		newLogger = newLogger.WithRequestID(requestID)
	}

	if brandID, ok := ctx.Value(BrandIDKey).(string); ok && brandID != "" {
		newLogger = &Logger{
			Logger: newLogger.With(slog.String("brand_id", brandID)),
		}
	}

	return newLogger
}

// WithRequestID returns a logger with request ID
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("request_id", requestID)),
	}
}

// HTTPRequest logs an HTTP request
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// DatabaseError logs database errors
func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// ScoringError logs a failed scoring pipeline run for a single lead.
func (l *Logger) ScoringError(leadID string, err error) {
	l.Error("scoring_error",
		slog.String("lead_id", leadID),
		slog.String("error", err.Error()),
	)
}

// StageChanged logs a stage transition (automatic or manual).
func (l *Logger) StageChanged(leadID, oldStage, newStage string, automatic bool) {
	l.Info("stage_changed",
		slog.String("lead_id", leadID),
		slog.String("old_stage", oldStage),
		slog.String("new_stage", newStage),
		slog.Bool("automatic", automatic),
	)
}

// BatchSummary logs the outcome of a batch rescoring sweep.
func (l *Logger) BatchSummary(processed, errors, total int, durationMs float64) {
	l.Info("rescore_sweep_completed",
		slog.Int("processed", processed),
		slog.Int("errors", errors),
		slog.Int("total", total),
		slog.Float64("duration_ms", durationMs),
	)
}

// RateLimitExceeded logs rate limit events
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}
