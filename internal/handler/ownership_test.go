package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"po-analytics/internal/config"
	"po-analytics/internal/models"
	"po-analytics/internal/repository"
	"po-analytics/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSessions map[string]*models.UploadSession

func (s stubSessions) Session(_ context.Context, code string) (*models.UploadSession, error) {
	if s == nil {
		return nil, service.ErrAuditUnavailable
	}
	session, ok := s[code]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return session, nil
}

// asUser stands in for the auth middleware
func asUser(id int, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", id)
		c.Locals("role", role)
		return c.Next()
	}
}

func status(t *testing.T, app *fiber.App, method, path string) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, path, nil))
	require.NoError(t, err)
	return resp.StatusCode
}

func TestSessionOwner(t *testing.T) {
	sessions := stubSessions{"UPLOAD-a": {SessionCode: "UPLOAD-a", UserID: 5}}

	tests := []struct {
		name     string
		lookup   SessionLookup
		userID   int
		role     string
		code     string
		expected int
	}{
		{"owner", sessions, 5, "analyst", "UPLOAD-a", fiber.StatusNoContent},
		{"other user", sessions, 6, "analyst", "UPLOAD-a", fiber.StatusNotFound},
		{"admin", sessions, 1, "admin", "UPLOAD-a", fiber.StatusNoContent},
		{"unknown code", sessions, 5, "analyst", "UPLOAD-b", fiber.StatusNotFound},
		{"no audit log", stubSessions(nil), 6, "analyst", "UPLOAD-a", fiber.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Delete("/uploads/:code", asUser(tt.userID, tt.role), SessionOwner(tt.lookup), func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusNoContent)
			})
			assert.Equal(t, tt.expected, status(t, app, http.MethodDelete, "/uploads/"+tt.code))
		})
	}
}

func TestReportJobVisibleToOwnerOnly(t *testing.T) {
	jobs := repository.NewMemoryJobStore()
	now := time.Now()
	require.NoError(t, jobs.Save(context.Background(), &models.ReportJob{
		ID: "job-1", SessionCode: "UPLOAD-a", UserID: 5, Format: models.FormatPDF,
		Status: models.JobStatusQueued, CreatedAt: now, UpdatedAt: now,
	}, time.Hour))

	h := NewReportJobHandler(nil, jobs, nil, &config.Config{ExportPath: t.TempDir()})

	tests := []struct {
		name     string
		userID   int
		role     string
		path     string
		expected int
	}{
		{"owner status", 5, "analyst", "/reports/job-1", fiber.StatusOK},
		{"admin status", 1, "admin", "/reports/job-1", fiber.StatusOK},
		{"other user status", 6, "analyst", "/reports/job-1", fiber.StatusNotFound},
		{"other user download", 6, "analyst", "/reports/job-1/download", fiber.StatusNotFound},
		{"owner download before completion", 5, "analyst", "/reports/job-1/download", fiber.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/reports/:id", asUser(tt.userID, tt.role), h.Status)
			app.Get("/reports/:id/download", asUser(tt.userID, tt.role), h.Download)
			assert.Equal(t, tt.expected, status(t, app, http.MethodGet, tt.path))
		})
	}
}
