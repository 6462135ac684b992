package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/radreport/radreport/internal/logging"
	"github.com/radreport/radreport/internal/report/domain"
	"github.com/radreport/radreport/internal/report/llm"
	"github.com/radreport/radreport/internal/report/prompt"
)

// TemplateResolver turns a template selector into template text.
type TemplateResolver interface {
	Resolve(ctx context.Context, selector string) (string, error)
}

// ReportCache is an optional prompt-keyed report cache.
type ReportCache interface {
	Get(ctx context.Context, prompt string) (string, bool, error)
	Set(ctx context.Context, prompt, report string) error
}

// HistoryStore is optional persistence for generated reports.
type HistoryStore interface {
	Save(ctx context.Context, rec *domain.ReportRecord) error
	GetByID(ctx context.Context, id string) (*domain.ReportRecord, error)
}

// Options wires a ReportService. Only Templates is required; a nil Generator
// makes every Generate call fail with domain.ErrModelUnavailable.
type Options struct {
	Generator llm.Generator
	Templates TemplateResolver
	Cache     ReportCache
	History   HistoryStore
	Timeout   time.Duration
}

// ReportService handles business logic for report generation
type ReportService struct {
	generator llm.Generator
	templates TemplateResolver
	cache     ReportCache
	history   HistoryStore
	timeout   time.Duration
	metrics   *Metrics
}

// NewReportService creates a new ReportService
func NewReportService(opts Options) *ReportService {
	if opts.Timeout <= 0 {
		opts.Timeout = GenerateTimeout
	}
	return &ReportService{
		generator: opts.Generator,
		templates: opts.Templates,
		cache:     opts.Cache,
		history:   opts.History,
		timeout:   opts.Timeout,
		metrics:   &Metrics{},
	}
}

// Available reports whether a model backend is configured.
func (s *ReportService) Available() bool {
	return s.generator != nil
}

// Metrics exposes the service counters.
func (s *ReportService) Metrics() *Metrics {
	return s.metrics
}

// Generate produces a report for req. Empty findings or template fall back to
// the built-in defaults. Cache and history failures are logged and ignored.
func (s *ReportService) Generate(ctx context.Context, req domain.ReportRequest) (res *domain.GenerateResult, err error) {
	logger := logging.FromContext(ctx)
	defer func() { s.metrics.recordGenerate(err) }()

	if s.generator == nil {
		return nil, domain.ErrModelUnavailable
	}

	template, err := s.templates.Resolve(ctx, req.Template)
	if err != nil {
		return nil, fmt.Errorf("resolve template: %w", err)
	}
	text := prompt.Build(req.Findings, template)

	res = &domain.GenerateResult{
		ID:       uuid.New().String(),
		Provider: s.generator.Name(),
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, text)
		if err != nil {
			logger.LogWarnf("generate_report", "cache lookup failed: %v", err)
		} else if ok {
			s.metrics.recordCacheHit()
			res.Report = cached
			res.Cached = true
		}
	}

	if !res.Cached {
		logger.LogInfof("generate_report", "generating report provider=%s", res.Provider)

		gctx, cancel := context.WithTimeout(ctx, s.timeout)
		start := time.Now()
		report, err := s.generator.Generate(gctx, text)
		cancel()
		s.metrics.recordLLMCall(time.Since(start), err)
		if err != nil {
			logger.LogError("generate_report", err)
			return nil, err
		}
		res.Report = report
		logger.LogInfo("generate_report", "report generated successfully")

		if s.cache != nil {
			sctx, cancel := sideEffectContext(ctx)
			if err := s.cache.Set(sctx, text, report); err != nil {
				logger.LogWarnf("generate_report", "cache store failed: %v", err)
			}
			cancel()
		}
	}

	if s.history != nil {
		rec := &domain.ReportRecord{
			ID:       res.ID,
			Findings: strings.TrimSpace(req.Findings),
			Template: strings.TrimSpace(req.Template),
			Report:   res.Report,
			Provider: res.Provider,
			Cached:   res.Cached,
		}
		sctx, cancel := sideEffectContext(ctx)
		if err := s.history.Save(sctx, rec); err != nil {
			logger.LogWarnf("generate_report", "history save failed: %v", err)
		}
		cancel()
	}

	return res, nil
}

// GetReport returns a previously generated report.
func (s *ReportService) GetReport(ctx context.Context, id string) (*domain.ReportRecord, error) {
	if s.history == nil {
		return nil, domain.ErrReportNotFound
	}
	return s.history.GetByID(ctx, id)
}

// sideEffectContext keeps request values but survives a client that hung up
// after the report was produced.
func sideEffectContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), SideEffectTimeout)
}
