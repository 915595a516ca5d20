package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"po-analytics/internal/analysis"
	"po-analytics/internal/models"
	"po-analytics/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrAuditUnavailable is returned when the upload audit log needs MySQL and it is not connected
var ErrAuditUnavailable = errors.New("upload history is not available (database not connected)")

const previewRows = 10

// AnalysisService ties uploaded workbooks to the aggregation engine. Datasets live in
// the store for the session TTL; every request recomputes from the stored rows.
type AnalysisService struct {
	store      repository.DatasetStore
	uploadRepo *repository.UploadRepository
	excel      *ExcelService
	ttl        time.Duration
	logger     *logrus.Logger
	now        func() time.Time
}

// NewAnalysisService builds the service. uploadRepo may be nil, in which case uploads are
// not recorded in the audit log.
func NewAnalysisService(
	store repository.DatasetStore,
	uploadRepo *repository.UploadRepository,
	excel *ExcelService,
	ttl time.Duration,
	logger *logrus.Logger,
) *AnalysisService {
	return &AnalysisService{
		store:      store,
		uploadRepo: uploadRepo,
		excel:      excel,
		ttl:        ttl,
		logger:     logger,
		now:        time.Now,
	}
}

// NewSessionCode returns a fresh upload session code
func NewSessionCode() string {
	return fmt.Sprintf("UPLOAD-%s", uuid.New().String()[:8])
}

// Upload parses a workbook, stores its first sheet under a new session code and records
// the upload in the audit log when one is configured.
func (s *AnalysisService) Upload(ctx context.Context, userID int, filename string, data []byte) (*models.UploadResult, error) {
	start := s.now()

	parsed, err := s.excel.ParseDataset(filename, data)
	if err != nil {
		s.logger.WithError(err).WithField("filename", filename).Warn("Failed to parse upload")
		return nil, err
	}
	ds := parsed.Dataset

	code := NewSessionCode()
	if err := s.store.Save(ctx, code, ds, s.ttl); err != nil {
		return nil, fmt.Errorf("failed to store dataset: %w", err)
	}

	session := &models.UploadSession{
		SessionCode: code,
		UserID:      userID,
		Filename:    filename,
		SheetName:   parsed.SheetName,
		TotalRows:   ds.Len(),
		ColumnCount: len(ds.Columns),
		HasPOCode:   ds.HasColumn(analysis.ColumnPOCode),
		Status:      models.SessionStatusReady,
		ExpiresAt:   start.Add(s.ttl),
		CreatedAt:   start,
		UpdatedAt:   start,
	}

	if s.uploadRepo != nil {
		if err := s.uploadRepo.CreateSession(ctx, session); err != nil {
			s.logger.WithError(err).WithField("session_code", code).Warn("Failed to record upload session")
		}
	}

	// A workbook without vendor_name still uploads; the analysis reports the missing column
	vendors, err := analysis.Vendors(ds)
	if err != nil {
		vendors = []string{}
	}

	preview := ds.Rows
	if len(preview) > previewRows {
		preview = preview[:previewRows]
	}

	s.logger.WithFields(logrus.Fields{
		"session_code": code,
		"filename":     filename,
		"sheet":        parsed.SheetName,
		"rows":         ds.Len(),
		"columns":      len(ds.Columns),
		"duration_ms":  s.now().Sub(start).Milliseconds(),
	}).Info("Workbook uploaded")

	return &models.UploadResult{
		Session: session,
		Columns: ds.Columns,
		Preview: preview,
		Vendors: vendors,
	}, nil
}

// Dataset loads the stored dataset of a session
func (s *AnalysisService) Dataset(ctx context.Context, code string) (*analysis.Dataset, error) {
	ds, err := s.store.Load(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) && s.uploadRepo != nil {
			_ = s.uploadRepo.UpdateSessionStatus(ctx, code, models.SessionStatusExpired)
		}
		return nil, err
	}
	return ds, nil
}

// Report runs the full analysis of a session under an optional vendor filter
func (s *AnalysisService) Report(ctx context.Context, code, vendor string) (*analysis.Report, error) {
	ds, err := s.Dataset(ctx, code)
	if err != nil {
		return nil, err
	}

	start := s.now()
	report, err := analysis.BuildReport(ds, vendor)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"session_code": code,
			"vendor":       vendor,
		}).Warn("Analysis failed")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"session_code":           code,
		"vendor":                 vendor,
		"input_rows":             report.Filter.InputRows,
		"retained":               report.Filter.Retained,
		"dropped_invalid_amount": report.Filter.DroppedInvalidAmount,
		"dropped_negative":       report.Filter.DroppedNegative,
		"dropped_status":         report.Filter.DroppedStatus,
		"dropped_vendor":         report.Filter.DroppedVendor,
		"po_available":           report.PurchaseOrders.Available,
		"duration_ms":            s.now().Sub(start).Milliseconds(),
	}).Info("Analysis completed")

	return report, nil
}

// Vendors lists the vendor names of a session's raw dataset
func (s *AnalysisService) Vendors(ctx context.Context, code string) ([]string, error) {
	ds, err := s.Dataset(ctx, code)
	if err != nil {
		return nil, err
	}
	return analysis.Vendors(ds)
}

// Breakdown returns the per-PO breakdown, optionally narrowed by a case-insensitive
// search on the PO code. A dataset without po_code yields a ValidationError.
func (s *AnalysisService) Breakdown(ctx context.Context, code, vendor, search string) ([]analysis.BreakdownRow, error) {
	ds, err := s.Dataset(ctx, code)
	if err != nil {
		return nil, err
	}

	fs, err := analysis.FilterRows(ds, vendor)
	if err != nil {
		return nil, err
	}

	rows, err := analysis.Breakdown(fs)
	if err != nil {
		return nil, err
	}
	return analysis.SearchBreakdown(rows, search), nil
}

// Session returns the audit record of one upload
func (s *AnalysisService) Session(ctx context.Context, code string) (*models.UploadSession, error) {
	if s.uploadRepo == nil {
		return nil, ErrAuditUnavailable
	}
	return s.uploadRepo.GetSessionByCode(ctx, code)
}

// Sessions lists uploads newest first. userID 0 lists every user's uploads.
func (s *AnalysisService) Sessions(ctx context.Context, limit, offset, userID int) ([]models.UploadSession, int, error) {
	if s.uploadRepo == nil {
		return nil, 0, ErrAuditUnavailable
	}
	if _, err := s.uploadRepo.ExpireSessions(ctx, s.now()); err != nil {
		s.logger.WithError(err).Warn("Failed to expire upload sessions")
	}
	return s.uploadRepo.GetSessions(ctx, limit, offset, userID)
}

// DeleteSession drops a session's dataset and its audit record
func (s *AnalysisService) DeleteSession(ctx context.Context, code string) error {
	if err := s.store.Delete(ctx, code); err != nil {
		return err
	}
	if s.uploadRepo != nil {
		return s.uploadRepo.DeleteSession(ctx, code)
	}
	return nil
}
