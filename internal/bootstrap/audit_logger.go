package bootstrap

import (
	"context"
	"time"

	"leavedesk/internal/shared/contextutil"

	"go.uber.org/zap"
)

type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}

type StdoutAuditLogger struct{}

func NewStdoutAuditLogger() *StdoutAuditLogger {
	return &StdoutAuditLogger{}
}

func (l *StdoutAuditLogger) Log(ctx context.Context, entry AuditLog) {
	md := contextutil.ExtractMetadata(ctx)
	zap.L().Named("audit").Info("audit event",
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.String("request_id", md.RequestID),
		zap.Int64("user_id", md.UserID),
		zap.Any("meta", entry.Meta),
	)
}
