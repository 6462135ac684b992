package domain

import "time"

// ReportRequest is the body accepted by POST /generate_report.
type ReportRequest struct {
	Findings string `json:"findings"`
	Template string `json:"template"`
}

// ReportResponse is the success body of POST /generate_report.
type ReportResponse struct {
	Report string `json:"report"`
	ID     string `json:"id,omitempty"`
	Cached bool   `json:"cached"`
}

// ErrorResponse is the failure body shared by every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// GenerateResult is what the report service hands back to transports.
type GenerateResult struct {
	ID       string
	Report   string
	Cached   bool
	Provider string
}

// ReportRecord is a generated report kept in history.
type ReportRecord struct {
	ID        string    `json:"id"`
	Findings  string    `json:"findings"`
	Template  string    `json:"template"`
	Report    string    `json:"report"`
	Provider  string    `json:"provider"`
	Cached    bool      `json:"cached"`
	CreatedAt time.Time `json:"created_at"`
}

// Template is a named normal-report template.
type Template struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Body   string `json:"-"`
	Source string `json:"source"`
}

const (
	TemplateSourceBuiltin  = "builtin"
	TemplateSourceFile     = "file"
	TemplateSourceDatabase = "database"
)
