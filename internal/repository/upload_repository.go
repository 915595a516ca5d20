package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"po-analytics/internal/models"

	"github.com/jmoiron/sqlx"
)

// ErrSessionNotFound is returned when an upload session does not exist or has expired
var ErrSessionNotFound = errors.New("upload session not found or expired")

// UploadRepository keeps the audit trail of uploaded workbooks in MySQL
type UploadRepository struct {
	db *sqlx.DB
}

func NewUploadRepository(db *sqlx.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

func (r *UploadRepository) CreateSession(ctx context.Context, session *models.UploadSession) error {
	query := `INSERT INTO upload_sessions (session_code, user_id, filename, sheet_name,
	          total_rows, column_count, has_po_code, status, error_message, expires_at)
	          VALUES (:session_code, :user_id, :filename, :sheet_name, :total_rows,
	          :column_count, :has_po_code, :status, :error_message, :expires_at)`
	result, err := r.db.NamedExecContext(ctx, query, session)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	session.ID = int(id)
	return nil
}

func (r *UploadRepository) GetSessionByCode(ctx context.Context, code string) (*models.UploadSession, error) {
	var session models.UploadSession
	query := "SELECT * FROM upload_sessions WHERE session_code = ? LIMIT 1"
	err := r.db.GetContext(ctx, &session, query, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSessions lists sessions newest first. userID 0 lists every user's sessions.
func (r *UploadRepository) GetSessions(ctx context.Context, limit, offset, userID int) ([]models.UploadSession, int, error) {
	sessions := []models.UploadSession{}
	var total int

	whereClause := ""
	args := []interface{}{}
	if userID > 0 {
		whereClause = "WHERE user_id = ?"
		args = append(args, userID)
	}

	countQuery := "SELECT COUNT(*) FROM upload_sessions " + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM upload_sessions " + whereClause + " ORDER BY created_at DESC"
	if limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}

func (r *UploadRepository) UpdateSessionStatus(ctx context.Context, code, status string) error {
	query := "UPDATE upload_sessions SET status = ?, updated_at = ? WHERE session_code = ?"
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), code)
	return err
}

// ExpireSessions marks sessions whose dataset TTL has passed
func (r *UploadRepository) ExpireSessions(ctx context.Context, now time.Time) (int64, error) {
	query := "UPDATE upload_sessions SET status = ? WHERE status = ? AND expires_at < ?"
	result, err := r.db.ExecContext(ctx, query, models.SessionStatusExpired, models.SessionStatusReady, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *UploadRepository) DeleteSession(ctx context.Context, code string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM upload_sessions WHERE session_code = ?", code)
	return err
}
