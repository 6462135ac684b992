package domain

import "errors"

var (
	ErrModelUnavailable = errors.New("report model is not configured")
	ErrPermissionDenied = errors.New("llm permission denied")
	ErrQuotaExceeded    = errors.New("llm quota exceeded")
	ErrInvalidArgument  = errors.New("llm rejected the request")
	ErrSafetyBlocked    = errors.New("llm blocked the content")
	ErrEmptyResponse    = errors.New("llm returned no report text")
	ErrReportNotFound   = errors.New("report not found")
	ErrTemplateNotFound = errors.New("template not found")
)
