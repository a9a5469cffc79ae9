package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/eternal-sentinels/es-archive/internal/model"
)

// DossierRepo stores personnel files awaiting or past moderation.
type DossierRepo struct {
	db *sql.DB
}

func NewDossierRepo(db *sql.DB) *DossierRepo { return &DossierRepo{db: db} }

const (
	dossierSummaryColumns = "id, user_id, username, file_name, file_type, file_size, status, submitted_at, reviewed_at, reviewed_by, admin_comment"
	dossierFullColumns    = dossierSummaryColumns + ", file_data"
)

func scanDossier(s rowScanner, withData bool) (*model.Dossier, error) {
	var d model.Dossier
	var reviewedAt sql.NullTime
	var reviewedBy, comment sql.NullString
	dest := []any{&d.ID, &d.UserID, &d.Username, &d.FileName, &d.FileType, &d.FileSize, &d.Status,
		&d.SubmittedAt, &reviewedAt, &reviewedBy, &comment}
	if withData {
		dest = append(dest, &d.FileData)
	}
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		d.ReviewedAt = &t
	}
	d.ReviewedBy = nullString(reviewedBy)
	d.AdminComment = nullString(comment)
	return &d, nil
}

// Submit stores d as pending.  A user may hold one pending dossier at a
// time; a second yields ErrPendingDossier.
func (r *DossierRepo) Submit(ctx context.Context, d *model.Dossier) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("submit dossier: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var pending int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM dossier_submissions WHERE user_id = ? AND status = ?",
		d.UserID, model.DossierPending).Scan(&pending); err != nil {
		return fmt.Errorf("submit dossier: %w", err)
	}
	if pending > 0 {
		return ErrPendingDossier
	}

	d.ID = uuid.NewString()
	d.Status = model.DossierPending
	d.SubmittedAt = now()
	d.ReviewedAt, d.ReviewedBy, d.AdminComment = nil, nil, nil
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO dossier_submissions ("+dossierFullColumns+") VALUES (?,?,?,?,?,?,?,?,?,?,?,?)",
		d.ID, d.UserID, d.Username, d.FileName, d.FileType, d.FileSize, d.Status,
		d.SubmittedAt, nil, nil, nil, d.FileData); err != nil {
		return fmt.Errorf("submit dossier: %w", err)
	}
	return tx.Commit()
}

func (r *DossierRepo) list(ctx context.Context, where string, args ...any) ([]model.Dossier, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+dossierSummaryColumns+" FROM dossier_submissions"+where+" ORDER BY submitted_at DESC, id DESC", args...)
	if err != nil {
		return nil, fmt.Errorf("list dossiers: %w", err)
	}
	defer rows.Close()

	out := []model.Dossier{}
	for rows.Next() {
		d, err := scanDossier(rows, false)
		if err != nil {
			return nil, fmt.Errorf("scan dossier: %w", err)
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// ListByUser returns a user's submissions newest first, without file data.
func (r *DossierRepo) ListByUser(ctx context.Context, userID string) ([]model.Dossier, error) {
	return r.list(ctx, " WHERE user_id = ?", userID)
}

// ListAll returns every submission newest first, without file data.
func (r *DossierRepo) ListAll(ctx context.Context) ([]model.Dossier, error) {
	return r.list(ctx, "")
}

// Latest returns the user's most recent submission without file data, or
// ErrDossierNotFound.
func (r *DossierRepo) Latest(ctx context.Context, userID string) (*model.Dossier, error) {
	d, err := scanDossier(r.db.QueryRowContext(ctx,
		"SELECT "+dossierSummaryColumns+" FROM dossier_submissions WHERE user_id = ? ORDER BY submitted_at DESC, id DESC LIMIT 1",
		userID), false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDossierNotFound
		}
		return nil, fmt.Errorf("latest dossier: %w", err)
	}
	return d, nil
}

// Get returns a submission including its file data.
func (r *DossierRepo) Get(ctx context.Context, id string) (*model.Dossier, error) {
	d, err := scanDossier(r.db.QueryRowContext(ctx,
		"SELECT "+dossierFullColumns+" FROM dossier_submissions WHERE id = ?", id), true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDossierNotFound
		}
		return nil, fmt.Errorf("get dossier %s: %w", id, err)
	}
	return d, nil
}

// Moderate records the administrator's decision and returns the updated
// submission without file data.
func (r *DossierRepo) Moderate(ctx context.Context, id, status, reviewer, comment string) (*model.Dossier, error) {
	at := now()
	res, err := r.db.ExecContext(ctx,
		"UPDATE dossier_submissions SET status = ?, reviewed_at = ?, reviewed_by = ?, admin_comment = ? WHERE id = ?",
		status, at, reviewer, comment, id)
	if err != nil {
		return nil, fmt.Errorf("moderate dossier %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrDossierNotFound
	}
	d, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	d.FileData = ""
	return d, nil
}
