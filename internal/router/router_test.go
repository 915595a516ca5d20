package router

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"po-analytics/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const devAuth = "Bearer dev-token-admin"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := &config.Config{
		AppName:          "PO Range Analytics",
		AppEnv:           "development",
		AppLocale:        "id-ID",
		SessionTTL:       time.Hour,
		JWTSecret:        "test-secret",
		JWTAccessExpire:  time.Hour,
		JWTRefreshExpire: time.Hour,
		UploadMaxSize:    10 * 1024 * 1024,
	}

	deps := NewDependencies(nil, nil, cfg)
	require.NotNil(t, deps.Memory)
	require.Nil(t, deps.AsynqClient)

	app := fiber.New(fiber.Config{Views: html.New("../../views", ".html")})
	Setup(app, deps)
	return app
}

func sampleWorkbook(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	rows := [][]interface{}{
		{"vendor_name", "po_code", "jumlah", "po_status_approval"},
		{"PT Satu", "PO-1", 50000, "Approved"},
		{"PT Satu", "PO-1", 80000, "Approved"},
		{"PT Dua", "PO-2", 7500000, "Approved"},
		{"PT Dua", "PO-3", 60000000, "Rejected"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func uploadRequest(t *testing.T, path, filename string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func apiGet(t *testing.T, app *fiber.App, path string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", devAuth)
	resp, body := do(t, app, req)

	var env envelope
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return resp.StatusCode, env
}

func uploadSample(t *testing.T, app *fiber.App) string {
	t.Helper()
	req := uploadRequest(t, "/api/v1/uploads", "po.xlsx", sampleWorkbook(t))
	req.Header.Set("Authorization", devAuth)
	resp, body := do(t, app, req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))
	var result struct {
		Session struct {
			SessionCode string `json:"session_code"`
		} `json:"session"`
		Vendors []string `json:"vendors"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, []string{"PT Dua", "PT Satu"}, result.Vendors)
	return result.Session.SessionCode
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"background_jobs":false`)
}

func TestUploadAndAnalyse(t *testing.T) {
	app := newTestApp(t)
	code := uploadSample(t, app)

	status, env := apiGet(t, app, "/api/v1/sessions/"+code+"/analysis")
	require.Equal(t, fiber.StatusOK, status)

	var report struct {
		Headline struct {
			TotalTransactions int  `json:"total_transactions"`
			TotalUniquePO     *int `json:"total_unique_po"`
		} `json:"headline"`
		PurchaseOrders struct {
			Available bool `json:"available"`
		} `json:"purchase_orders"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, 3, report.Headline.TotalTransactions)
	require.NotNil(t, report.Headline.TotalUniquePO)
	assert.Equal(t, 2, *report.Headline.TotalUniquePO)
	assert.True(t, report.PurchaseOrders.Available)

	status, env = apiGet(t, app, "/api/v1/sessions/"+code+"/breakdown?search=po-2")
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(env.Data), "PO-2")
	assert.NotContains(t, string(env.Data), "PO-1")

	status, _ = apiGet(t, app, "/api/v1/sessions/"+code+"/analysis?vendor=PT%20Tiga")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = apiGet(t, app, "/api/v1/sessions/UPLOAD-missing/analysis")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestExportDownload(t *testing.T) {
	app := newTestApp(t)
	code := uploadSample(t, app)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+code+"/export/breakdown_csv?vendor=PT%20Satu", nil)
	req.Header.Set("Authorization", devAuth)
	resp, body := do(t, app, req)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "PO_Breakdown_PT_Satu_")
	assert.Contains(t, string(body), "PO-1,2,130000")

	status, _ := apiGet(t, app, "/api/v1/sessions/"+code+"/export/docx")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestServiceUnavailableWithoutInfrastructure(t *testing.T) {
	app := newTestApp(t)

	status, _ := apiGet(t, app, "/api/v1/uploads")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/UPLOAD-x/reports", strings.NewReader(`{"format":"pdf"}`))
	req.Header.Set("Authorization", devAuth)
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp, _ := do(t, app, req)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestUnauthenticatedAPI(t *testing.T) {
	app := newTestApp(t)
	resp, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/uploads", nil))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/ranges", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestWebPages(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Di atas 50 Juta")

	resp, _ = do(t, app, uploadRequest(t, "/upload", "po.xlsx", sampleWorkbook(t)))
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	location := resp.Header.Get(fiber.HeaderLocation)
	require.True(t, strings.HasPrefix(location, "/analysis/UPLOAD-"), location)

	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, location+"?search=PO-1", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	page := string(body)
	assert.Contains(t, page, "Rp 7.630.000")
	assert.Contains(t, page, "PO-1")
	assert.Contains(t, page, "TOTAL")

	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, "/analysis/UPLOAD-missing", nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "Error 404")
}
