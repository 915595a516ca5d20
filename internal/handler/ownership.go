package handler

import (
	"context"
	"errors"

	"po-analytics/internal/models"
	"po-analytics/internal/service"
	"po-analytics/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// SessionLookup finds the audit record of an upload session
type SessionLookup interface {
	Session(ctx context.Context, code string) (*models.UploadSession, error)
}

// SessionOwner admits a request for /:code only when the caller uploaded that session or
// is an admin. Other users get the same 404 as an unknown code. Without the audit log
// there is no owner on record and every authenticated caller is admitted.
func SessionOwner(sessions SessionLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if currentRole(c) == "admin" {
			return c.Next()
		}

		session, err := sessions.Session(c.UserContext(), c.Params("code"))
		if errors.Is(err, service.ErrAuditUnavailable) {
			return c.Next()
		}
		if err != nil {
			return respondError(c, err)
		}
		if session.UserID != currentUserID(c) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Upload session not found or expired", nil)
		}
		return c.Next()
	}
}

// canSeeJob reports whether the caller queued the job or is an admin
func canSeeJob(c *fiber.Ctx, job *models.ReportJob) bool {
	return currentRole(c) == "admin" || job.UserID == currentUserID(c)
}
