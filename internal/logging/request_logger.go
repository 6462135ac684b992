package logging

import (
	"context"

	"go.uber.org/zap"
)

// RequestLogger tags every entry with the request ID and the operation name.
type RequestLogger struct {
	log *zap.SugaredLogger
}

// FromContext creates a logger bound to the request ID found in ctx.
func FromContext(ctx context.Context) *RequestLogger {
	requestID := RequestID(ctx)
	if requestID == "" {
		requestID = "unknown"
	}
	return &RequestLogger{log: Logger.With("request_id", requestID)}
}

func (l *RequestLogger) LogError(operation string, err error) {
	l.log.Errorw(err.Error(), "operation", operation)
}

func (l *RequestLogger) LogErrorf(operation string, format string, args ...interface{}) {
	l.log.With("operation", operation).Errorf(format, args...)
}

func (l *RequestLogger) LogInfo(operation string, message string) {
	l.log.Infow(message, "operation", operation)
}

func (l *RequestLogger) LogInfof(operation string, format string, args ...interface{}) {
	l.log.With("operation", operation).Infof(format, args...)
}

func (l *RequestLogger) LogWarn(operation string, message string) {
	l.log.Warnw(message, "operation", operation)
}

func (l *RequestLogger) LogWarnf(operation string, format string, args ...interface{}) {
	l.log.With("operation", operation).Warnf(format, args...)
}
