package models

import "time"

// Upload session statuses
const (
	SessionStatusReady   = "ready"
	SessionStatusExpired = "expired"
	SessionStatusFailed  = "failed"
)

// UploadSession is the audit record of one uploaded workbook. The parsed rows live in
// the dataset store under SessionCode; this record only describes them.
type UploadSession struct {
	ID           int       `db:"id" json:"id"`
	SessionCode  string    `db:"session_code" json:"session_code"`
	UserID       int       `db:"user_id" json:"user_id"`
	Filename     string    `db:"filename" json:"filename"`
	SheetName    string    `db:"sheet_name" json:"sheet_name"`
	TotalRows    int       `db:"total_rows" json:"total_rows"`
	ColumnCount  int       `db:"column_count" json:"column_count"`
	HasPOCode    bool      `db:"has_po_code" json:"has_po_code"`
	Status       string    `db:"status" json:"status"`
	ErrorMessage string    `db:"error_message" json:"error_message,omitempty"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// UploadResult is returned to the client after a workbook has been parsed and stored.
type UploadResult struct {
	Session *UploadSession `json:"session"`
	Columns []string       `json:"columns"`
	Preview [][]string     `json:"preview"`
	Vendors []string       `json:"vendors"`
}
