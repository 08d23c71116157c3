package credstore

import (
	"context"
	"errors"
	"io"
	"log/slog"

	internalaudit "github.com/MrEthical07/credstore/internal/audit"
	"github.com/MrEthical07/credstore/user"
)

// AuditEvent is the record delivered to an [AuditSink].
type AuditEvent = internalaudit.Event

// AuditSink receives audit events from the dispatcher goroutine.
type AuditSink = internalaudit.Sink

// NoOpSink discards events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink buffers events in a channel; read them with Events.
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink = internalaudit.JSONWriterSink

// SlogSink writes each event as a structured log record.
type SlogSink = internalaudit.SlogSink

// NewChannelSink returns a ChannelSink with the given buffer.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink returns a sink writing JSON lines to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

// NewSlogSink returns a sink logging events at level.
func NewSlogSink(logger *slog.Logger, level slog.Level) *SlogSink {
	return internalaudit.NewSlogSink(logger, level)
}

const (
	auditEventRegisterSuccess     = "register_success"
	auditEventRegisterDuplicate   = "register_duplicate"
	auditEventRegisterFailure     = "register_failure"
	auditEventAuthenticateSuccess = "authenticate_success"
	auditEventAuthenticateFailure = "authenticate_failure"
	auditEventTokenIssued         = "token_issued"
	auditEventTokenVerified       = "token_verified"
	auditEventTokenRejected       = "token_rejected"
)

// AuditErrorCode is the stable failure code carried in [AuditEvent.Error].
type AuditErrorCode string

const (
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrUserNotFound       AuditErrorCode = "user_not_found"
	auditErrDuplicate          AuditErrorCode = "duplicate"
	auditErrUnavailable        AuditErrorCode = "backend_unavailable"
	auditErrRecordCorrupt      AuditErrorCode = "record_corrupt"
	auditErrPasswordHash       AuditErrorCode = "password_hash"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func (s *Store) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	username string,
	code AuditErrorCode,
	metadataBuilder func() map[string]string,
) {
	if s == nil || s.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	s.audit.Emit(ctx, AuditEvent{
		Timestamp: s.now().UTC(),
		EventType: eventType,
		Username:  username,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Error:     string(code),
		Metadata:  metadata,
	})
}

func auditErrorCode(err error) AuditErrorCode {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, user.ErrExists):
		return auditErrDuplicate
	case errors.Is(err, user.ErrNotFound):
		return auditErrUserNotFound
	case errors.Is(err, user.ErrUnavailable), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return auditErrUnavailable
	case errors.Is(err, user.ErrCorrupt):
		return auditErrRecordCorrupt
	case errors.Is(err, ErrPasswordHash):
		return auditErrPasswordHash
	default:
		return auditErrInternal
	}
}
