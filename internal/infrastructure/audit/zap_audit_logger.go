package audit

import (
	"context"

	"github.com/you/coursegate/domain"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapAuditLogger implements domain.AuditLogger by writing one structured entry per event
type ZapAuditLogger struct {
	log *zap.Logger
}

// NewZapAuditLogger creates a new audit logger on a child logger named "audit"
func NewZapAuditLogger(log *zap.Logger) domain.AuditLogger {
	return &ZapAuditLogger{log: log.Named("audit")}
}

// LogEvent implements domain.AuditLogger
func (a *ZapAuditLogger) LogEvent(_ context.Context, event *domain.AuditEvent) {
	if event == nil {
		return
	}

	fields := []zap.Field{
		zap.String("event_type", string(event.EventType)),
		zap.Time("event_time", event.Timestamp),
		zap.Bool("success", event.Success),
	}
	if event.ActorID != 0 {
		fields = append(fields, zap.Uint("actor_id", event.ActorID))
	}
	if event.UserID != 0 {
		fields = append(fields, zap.Uint("user_id", event.UserID))
	}
	if event.EnrollmentID != 0 {
		fields = append(fields, zap.Uint("enrollment_id", event.EnrollmentID))
	}
	if event.Email != "" {
		fields = append(fields, zap.String("email", event.Email))
	}
	if len(event.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", event.Metadata))
	}

	level := zapcore.InfoLevel
	if !event.Success {
		level = zapcore.WarnLevel
		fields = append(fields, zap.String("error", event.ErrorMsg))
	}
	a.log.Log(level, "audit event", fields...)
}
