package models

import "time"

// ReportFormat names one downloadable rendition of a report
type ReportFormat string

const (
	FormatWorkbook     ReportFormat = "xlsx"
	FormatPDF          ReportFormat = "pdf"
	FormatBreakdownCSV ReportFormat = "breakdown_csv"
	FormatRawCSV       ReportFormat = "raw_csv"
)

// Valid reports whether f is a known format
func (f ReportFormat) Valid() bool {
	switch f {
	case FormatWorkbook, FormatPDF, FormatBreakdownCSV, FormatRawCSV:
		return true
	}
	return false
}

// Report job statuses
const (
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// ReportJob tracks a report rendered in the background by the worker
type ReportJob struct {
	ID          string       `json:"id"`
	SessionCode string       `json:"session_code"`
	UserID      int          `json:"user_id"`
	Vendor      string       `json:"vendor,omitempty"`
	Format      ReportFormat `json:"format"`
	Status      string       `json:"status"`
	FileName    string       `json:"file_name,omitempty"`
	Error       string       `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Done reports whether the job reached a terminal status
func (j *ReportJob) Done() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}
