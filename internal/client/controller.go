package client

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

const (
	FailurePrefix     = "Failed to generate report: "
	UnexpectedMessage = "Received an unexpected response from the server."
	CopyLabel         = "Copy Report to Clipboard"
	CopiedLabel       = "Copied!"
	CopyFailedMessage = "Failed to copy report. Please copy manually."
	CopyResetDelay    = 2000 * time.Millisecond
)

// ErrUnexpectedResponse marks a 2xx body carrying neither report nor error.
var ErrUnexpectedResponse = errors.New("unexpected response shape")

// ServerError is an application failure reported in a 2xx body.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// View is the display surface. At most one of the loading, result and error
// regions is visible at a time.
type View interface {
	ShowLoading()
	HideLoading()
	ShowResult(report string)
	HideResult()
	ShowError(message string)
	HideError()
	SetSubmitEnabled(enabled bool)
	ClearReport()
	ReportText() string
	SetCopyLabel(label string)
}

// Clipboard receives copied report text.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Alerter shows a blocking notice to the user.
type Alerter interface {
	Alert(message string)
}

// ReportGenerator performs the network call.
type ReportGenerator interface {
	Generate(ctx context.Context, req ReportRequest) (*ReportResponse, error)
}

// Controller runs the submit and copy actions against a View.
type Controller struct {
	view      View
	reports   ReportGenerator
	clipboard Clipboard
	alerter   Alerter
	logger    *zap.SugaredLogger
	after     func(d time.Duration, f func())
}

// Option customises a Controller.
type Option func(*Controller)

// WithLogger sets the diagnostics logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithTimer replaces time.AfterFunc for scheduling the copy label restore.
func WithTimer(after func(d time.Duration, f func())) Option {
	return func(c *Controller) { c.after = after }
}

func NewController(view View, reports ReportGenerator, clipboard Clipboard, alerter Alerter, opts ...Option) *Controller {
	c := &Controller{
		view:      view,
		reports:   reports,
		clipboard: clipboard,
		alerter:   alerter,
		logger:    zap.NewNop().Sugar(),
		after: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HandleSubmit runs one submit cycle. Every failure is rendered in the error
// region; the returned error is the same failure for callers that need an
// exit status.
func (c *Controller) HandleSubmit(ctx context.Context, findings, template string) error {
	c.view.HideResult()
	c.view.HideError()
	c.view.ShowLoading()
	c.view.SetSubmitEnabled(false)
	c.view.ClearReport()

	report, err := c.request(ctx, ReportRequest{Findings: findings, Template: template})
	if err != nil {
		c.view.ShowError(FailurePrefix + Message(err))
		return err
	}
	c.view.ShowResult(report)
	return nil
}

// request performs the call and classifies the response. Loading is hidden
// and submit re-enabled on every exit path before anything is rendered.
func (c *Controller) request(ctx context.Context, req ReportRequest) (string, error) {
	defer func() {
		c.view.HideLoading()
		c.view.SetSubmitEnabled(true)
	}()

	resp, err := c.reports.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	switch {
	case resp.Report != "":
		return resp.Report, nil
	case resp.Error != "":
		return "", &ServerError{Message: resp.Error}
	default:
		return "", ErrUnexpectedResponse
	}
}

// HandleCopy copies the displayed report. On success the copy label reads
// CopiedLabel for CopyResetDelay; every call schedules its own restore.
func (c *Controller) HandleCopy(ctx context.Context) error {
	if err := c.clipboard.WriteText(ctx, c.view.ReportText()); err != nil {
		c.logger.Errorw("failed to copy report", "error", err)
		c.alerter.Alert(CopyFailedMessage)
		return err
	}

	c.view.SetCopyLabel(CopiedLabel)
	c.after(CopyResetDelay, func() {
		c.view.SetCopyLabel(CopyLabel)
	})
	return nil
}

// Message is the user-facing text for a submit failure.
func Message(err error) string {
	var httpErr *HTTPError
	var serverErr *ServerError
	switch {
	case errors.Is(err, ErrUnexpectedResponse):
		return UnexpectedMessage
	case errors.As(err, &httpErr):
		return httpErr.Message
	case errors.As(err, &serverErr):
		return serverErr.Message
	default:
		return err.Error()
	}
}
