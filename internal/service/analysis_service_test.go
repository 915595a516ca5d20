package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"po-analytics/internal/analysis"
	"po-analytics/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalysisService() *AnalysisService {
	return NewAnalysisService(repository.NewMemoryDatasetStore(), nil, NewExcelService(), time.Hour, quietLogger())
}

func TestNewSessionCode(t *testing.T) {
	code := NewSessionCode()
	assert.True(t, strings.HasPrefix(code, "UPLOAD-"))
	assert.Len(t, code, len("UPLOAD-")+8)
	assert.NotEqual(t, code, NewSessionCode())
}

func TestAnalysisServiceUploadAndReport(t *testing.T) {
	ctx := context.Background()
	svc := newTestAnalysisService()

	result, err := svc.Upload(ctx, 7, "po.xlsx", poWorkbook(t))
	require.NoError(t, err)

	session := result.Session
	assert.Equal(t, 7, session.UserID)
	assert.Equal(t, 5, session.TotalRows)
	assert.Equal(t, 4, session.ColumnCount)
	assert.True(t, session.HasPOCode)
	assert.Equal(t, []string{"PT Dua", "PT Satu"}, result.Vendors)
	assert.Len(t, result.Preview, 5)

	report, err := svc.Report(ctx, session.SessionCode, "")
	require.NoError(t, err)
	assert.Equal(t, 3, report.Headline.TotalTransactions)
	assert.Equal(t, 1, report.Filter.DroppedInvalidAmount)
	assert.Equal(t, 1, report.Filter.DroppedStatus)
	require.True(t, report.PurchaseOrders.Available)
	assert.Equal(t, 2, report.PurchaseOrders.Summary.TotalUniquePO)

	rows, err := svc.Breakdown(ctx, session.SessionCode, "", "po-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "PO-1", rows[0].POCode)

	_, err = svc.Report(ctx, session.SessionCode, "PT Tiga")
	var empty *analysis.EmptyResultError
	assert.ErrorAs(t, err, &empty)
}

func TestAnalysisServiceMissingSession(t *testing.T) {
	ctx := context.Background()
	svc := newTestAnalysisService()

	_, err := svc.Report(ctx, "UPLOAD-missing", "")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)

	_, _, err = svc.Sessions(ctx, 10, 0, 0)
	assert.ErrorIs(t, err, ErrAuditUnavailable)
}

func TestAnalysisServiceDeleteSession(t *testing.T) {
	ctx := context.Background()
	svc := newTestAnalysisService()

	result, err := svc.Upload(ctx, 1, "po.xlsx", poWorkbook(t))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSession(ctx, result.Session.SessionCode))
	_, err = svc.Dataset(ctx, result.Session.SessionCode)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestAnalysisServiceUploadWithoutVendorColumn(t *testing.T) {
	data := workbookBytes(t,
		[]interface{}{"jumlah", "po_status_approval"},
		[]interface{}{1000, "Approved"},
	)

	svc := newTestAnalysisService()
	result, err := svc.Upload(context.Background(), 1, "novendor.xlsx", data)
	require.NoError(t, err)
	assert.Empty(t, result.Vendors)

	_, err = svc.Report(context.Background(), result.Session.SessionCode, "")
	var validation *analysis.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, analysis.ColumnVendor, validation.Column)
}
