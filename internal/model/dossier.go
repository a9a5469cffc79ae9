package model

import "time"

// Dossier moderation states.
const (
	DossierPending  = "pending"
	DossierApproved = "approved"
	DossierRejected = "rejected"
)

// MaxDossierBytes bounds the declared size of a submitted file.
const MaxDossierBytes = 10 * 1024 * 1024

// Dossier is a personnel file submitted by a user for administrator review,
// stored in the `dossier_submissions` table.  FileData holds the base64
// payload and is omitted from list responses.
type Dossier struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Username     string     `json:"username"`
	FileName     string     `json:"file_name"`
	FileData     string     `json:"file_data,omitempty"`
	FileType     string     `json:"file_type"`
	FileSize     int64      `json:"file_size"`
	Status       string     `json:"status"`
	SubmittedAt  time.Time  `json:"submitted_at"`
	ReviewedAt   *time.Time `json:"reviewed_at"`
	ReviewedBy   *string    `json:"reviewed_by"`
	AdminComment *string    `json:"admin_comment"`
}
