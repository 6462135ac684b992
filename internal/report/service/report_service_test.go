package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/radreport/radreport/internal/report/domain"
	"github.com/radreport/radreport/internal/report/prompt"
	"github.com/radreport/radreport/internal/report/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	report  string
	err     error
}

func (f *fakeGenerator) Generate(_ context.Context, p string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, p)
	return f.report, f.err
}

func (f *fakeGenerator) Name() string { return "fake" }

type memCache struct {
	entries map[string]string
	getErr  error
	setErr  error
}

func (m *memCache) Get(_ context.Context, p string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	r, ok := m.entries[p]
	return r, ok, nil
}

func (m *memCache) Set(_ context.Context, p, r string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.entries[p] = r
	return nil
}

type memHistory struct {
	records map[string]*domain.ReportRecord
	err     error
}

func (m *memHistory) Save(_ context.Context, rec *domain.ReportRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records[rec.ID] = rec
	return nil
}

func (m *memHistory) GetByID(_ context.Context, id string) (*domain.ReportRecord, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	return rec, nil
}

func newTestService(gen *fakeGenerator, cache ReportCache, history HistoryStore) *ReportService {
	opts := Options{Templates: templates.NewCatalog(nil), Cache: cache, History: history}
	if gen != nil {
		opts.Generator = gen
	}
	return NewReportService(opts)
}

func TestGenerate_Success(t *testing.T) {
	gen := &fakeGenerator{report: "FINAL REPORT"}
	history := &memHistory{records: map[string]*domain.ReportRecord{}}
	svc := newTestService(gen, nil, history)

	res, err := svc.Generate(context.Background(), domain.ReportRequest{Findings: " 5mm nodule ", Template: "chest-ct"})
	require.NoError(t, err)

	assert.Equal(t, "FINAL REPORT", res.Report)
	assert.False(t, res.Cached)
	assert.Equal(t, "fake", res.Provider)
	assert.NotEmpty(t, res.ID)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "5mm nodule")
	assert.Contains(t, gen.prompts[0], "Computed Tomography of the Chest")

	rec, err := svc.GetReport(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "5mm nodule", rec.Findings)
	assert.Equal(t, "chest-ct", rec.Template)
	assert.Equal(t, "FINAL REPORT", rec.Report)

	snap := svc.Metrics().Snapshot()
	assert.Equal(t, int64(1), snap.GenerateCalls)
	assert.Equal(t, int64(1), snap.LLMCalls)
	assert.Equal(t, int64(0), snap.GenerateErrors)
}

func TestGenerate_EmptyInputsUseDefaults(t *testing.T) {
	gen := &fakeGenerator{report: "R"}
	svc := newTestService(gen, nil, nil)

	_, err := svc.Generate(context.Background(), domain.ReportRequest{})
	require.NoError(t, err)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], prompt.DefaultFindings)
	assert.Contains(t, gen.prompts[0], strings.TrimSpace(prompt.DefaultTemplate))
}

func TestGenerate_ModelUnavailable(t *testing.T) {
	svc := newTestService(nil, nil, nil)

	assert.False(t, svc.Available())
	_, err := svc.Generate(context.Background(), domain.ReportRequest{Findings: "x"})
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
	assert.Equal(t, int64(1), svc.Metrics().Snapshot().GenerateErrors)
}

func TestGenerate_GeneratorError(t *testing.T) {
	gen := &fakeGenerator{err: domain.ErrQuotaExceeded}
	history := &memHistory{records: map[string]*domain.ReportRecord{}}
	svc := newTestService(gen, nil, history)

	_, err := svc.Generate(context.Background(), domain.ReportRequest{Findings: "x"})
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
	assert.Empty(t, history.records)

	snap := svc.Metrics().Snapshot()
	assert.Equal(t, int64(1), snap.LLMErrors)
	assert.InDelta(t, 100.0, snap.LLMErrorRate, 0.001)
}

func TestGenerate_Cache(t *testing.T) {
	gen := &fakeGenerator{report: "FRESH"}
	cache := &memCache{entries: map[string]string{}}
	svc := newTestService(gen, cache, nil)
	req := domain.ReportRequest{Findings: "effusion", Template: "chest-ct"}

	first, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	gen.report = "SHOULD NOT BE USED"
	second, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, "FRESH", second.Report)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, gen.prompts, 1)
	assert.Equal(t, int64(1), svc.Metrics().Snapshot().CacheHits)
}

func TestGenerate_SideEffectFailuresAreNotFatal(t *testing.T) {
	gen := &fakeGenerator{report: "R"}
	cache := &memCache{entries: map[string]string{}, getErr: errors.New("redis down"), setErr: errors.New("redis down")}
	history := &memHistory{records: map[string]*domain.ReportRecord{}, err: errors.New("db down")}
	svc := newTestService(gen, cache, history)

	res, err := svc.Generate(context.Background(), domain.ReportRequest{Findings: "x"})
	require.NoError(t, err)
	assert.Equal(t, "R", res.Report)
}

func TestGetReport_WithoutHistory(t *testing.T) {
	svc := newTestService(&fakeGenerator{}, nil, nil)
	_, err := svc.GetReport(context.Background(), "any")
	assert.ErrorIs(t, err, domain.ErrReportNotFound)
}
