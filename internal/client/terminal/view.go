// Package terminal renders the report controller in a terminal with pterm.
package terminal

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/pterm/pterm"

	"github.com/radreport/radreport/internal/client"
)

const loadingText = "Generating report..."

// View is a client.View writing to a terminal. Loading is a spinner, the
// result a titled box (or the raw text in plain mode), errors a pterm error
// line.
type View struct {
	mu sync.Mutex

	out     io.Writer
	animate bool
	plain   bool

	spinner       *pterm.SpinnerPrinter
	report        string
	copyLabel     string
	submitEnabled bool
	loading       bool
	result        bool
	errorVisible  bool
}

type ViewOption func(*View)

// WithWriter sends output to w instead of stdout.
func WithWriter(w io.Writer) ViewOption {
	return func(v *View) { v.out = w }
}

// WithPlain prints the report without decoration, suitable for piping.
func WithPlain(plain bool) ViewOption {
	return func(v *View) { v.plain = plain }
}

// WithSpinner toggles the animated loading indicator.
func WithSpinner(animate bool) ViewOption {
	return func(v *View) { v.animate = animate }
}

func NewView(opts ...ViewOption) *View {
	v := &View{
		out:           os.Stdout,
		animate:       true,
		copyLabel:     client.CopyLabel,
		submitEnabled: true,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *View) ShowLoading() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = true
	if !v.animate {
		pterm.Fprint(v.out, pterm.Info.Sprintln(loadingText))
		return
	}
	spinner, err := pterm.DefaultSpinner.WithWriter(v.out).Start(loadingText)
	if err == nil {
		v.spinner = spinner
	}
}

func (v *View) HideLoading() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false
	if v.spinner != nil {
		_ = v.spinner.Stop()
		v.spinner = nil
	}
}

func (v *View) ShowResult(report string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.report = report
	v.result = true
	if v.plain {
		_, _ = io.WriteString(v.out, report+"\n")
		return
	}
	box := pterm.DefaultBox.
		WithTitle("Generated Report").
		WithLeftPadding(1).
		WithRightPadding(1).
		Sprint(report)
	pterm.Fprintln(v.out, box)
}

func (v *View) HideResult() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.result = false
}

func (v *View) ShowError(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errorVisible = true
	pterm.Fprint(v.out, pterm.Error.Sprintln(message))
}

func (v *View) HideError() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errorVisible = false
}

func (v *View) SetSubmitEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.submitEnabled = enabled
}

func (v *View) ClearReport() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.report = ""
}

func (v *View) ReportText() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.report
}

// SetCopyLabel announces the confirmation label; restores are silent.
func (v *View) SetCopyLabel(label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if label != v.copyLabel && label != client.CopyLabel {
		pterm.Fprint(v.out, pterm.Success.Sprintln(label))
	}
	v.copyLabel = label
}

// CopyLabel returns the current copy action label.
func (v *View) CopyLabel() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.copyLabel
}

// SubmitEnabled reports whether another submission may start.
func (v *View) SubmitEnabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.submitEnabled
}

// Alerter prints blocking notices as pterm warnings.
type Alerter struct {
	out io.Writer
}

func NewAlerter(out io.Writer) *Alerter {
	if out == nil {
		out = os.Stderr
	}
	return &Alerter{out: out}
}

func (a *Alerter) Alert(message string) {
	pterm.Fprint(a.out, pterm.Warning.Sprintln(message))
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if clipboard.Unsupported {
		return errClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}
