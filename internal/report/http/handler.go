package http

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/radreport/radreport/internal/logging"
	"github.com/radreport/radreport/internal/report/domain"
	"github.com/radreport/radreport/internal/report/prompt"
	"github.com/radreport/radreport/internal/report/service"
)

//go:embed web/index.html web/app.js
var webFS embed.FS

var indexPage = template.Must(template.ParseFS(webFS, "web/index.html"))

// TemplateLister lists the templates offered on the index page.
type TemplateLister interface {
	List(ctx context.Context) ([]domain.Template, error)
}

type Handler struct {
	svc       *service.ReportService
	templates TemplateLister
	title     string
	version   string
}

func NewHandler(svc *service.ReportService, templates TemplateLister, version string) *Handler {
	return &Handler{
		svc:       svc,
		templates: templates,
		title:     "Radiology Report Generator",
		version:   version,
	}
}

// Register mounts the routes. generate runs in front of POST
// /generate_report only.
func (h *Handler) Register(r gin.IRouter, generate ...gin.HandlerFunc) {
	r.GET("/", h.Index)
	r.GET("/static/app.js", h.Script)
	r.POST("/generate_report", append(generate, h.GenerateReport)...)
	r.GET("/templates", h.ListTemplates)
	r.GET("/reports/:id", h.GetReport)
	r.GET("/metrics", h.Metrics)
}

type indexPageData struct {
	Title           string
	Version         string
	DefaultTemplate string
	Templates       []domain.Template
}

// Index serves the report form page.
func (h *Handler) Index(c *gin.Context) {
	list, err := h.templates.List(c.Request.Context())
	if err != nil {
		logging.FromContext(c.Request.Context()).LogWarnf("index", "listing templates failed: %v", err)
		list = []domain.Template{{Name: prompt.DefaultTemplateName, Title: "CT Chest"}}
	}

	var buf bytes.Buffer
	if err := indexPage.Execute(&buf, indexPageData{
		Title:           h.title,
		Version:         h.version,
		DefaultTemplate: prompt.DefaultTemplateName,
		Templates:       list,
	}); err != nil {
		logging.FromContext(c.Request.Context()).LogError("index", err)
		c.String(http.StatusInternalServerError, "Render error")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// Script serves the browser-side report form controller.
func (h *Handler) Script(c *gin.Context) {
	b, err := webFS.ReadFile("web/app.js")
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.Data(http.StatusOK, "application/javascript; charset=utf-8", b)
}

// GenerateReport handles POST /generate_report.
func (h *Handler) GenerateReport(c *gin.Context) {
	if !h.svc.Available() {
		logging.FromContext(c.Request.Context()).LogError("generate_report", domain.ErrModelUnavailable)
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{
			Error: "Report generation service is currently unavailable. Missing API configuration.",
		})
		return
	}

	if c.ContentType() != gin.MIMEJSON {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "Request must be JSON"})
		return
	}

	var req domain.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	res, err := h.svc.Generate(c.Request.Context(), req)
	if err != nil {
		status, msg := errorStatus(err)
		c.JSON(status, domain.ErrorResponse{Error: msg})
		return
	}

	c.JSON(http.StatusOK, domain.ReportResponse{
		Report: res.Report,
		ID:     res.ID,
		Cached: res.Cached,
	})
}

// ListTemplates handles GET /templates.
func (h *Handler) ListTemplates(c *gin.Context) {
	list, err := h.templates.List(c.Request.Context())
	if err != nil {
		logging.FromContext(c.Request.Context()).LogError("list_templates", err)
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: "failed to list templates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": list})
}

// GetReport handles GET /reports/:id.
func (h *Handler) GetReport(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "report ID is required"})
		return
	}

	rec, err := h.svc.GetReport(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrReportNotFound) {
			c.JSON(http.StatusNotFound, domain.ErrorResponse{Error: "report not found"})
			return
		}
		logging.FromContext(c.Request.Context()).LogError("get_report", err)
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: "failed to get report"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": rec})
}

// Metrics handles GET /metrics.
func (h *Handler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Metrics().Snapshot())
}

// errorStatus maps generation failures onto the HTTP status and the message
// shown to the user.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrModelUnavailable):
		return http.StatusInternalServerError, "Report generation service is currently unavailable. Missing API configuration."
	case errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden, "API Permission Denied. Please check API key configuration. Details: " + err.Error()
	case errors.Is(err, domain.ErrQuotaExceeded):
		return http.StatusTooManyRequests, "API quota exceeded. Please try again later or check your usage limits."
	case errors.Is(err, domain.ErrSafetyBlocked):
		return http.StatusBadRequest, "Report generation failed due to safety filters. The content may have been flagged as potentially harmful."
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest, "Invalid request sent to API. Details: " + err.Error()
	case errors.Is(err, domain.ErrEmptyResponse):
		return http.StatusInternalServerError, "Failed to process the response from the report generation service."
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Report generation timed out. Please try again."
	default:
		return http.StatusInternalServerError, "An unexpected error occurred: " + err.Error()
	}
}
