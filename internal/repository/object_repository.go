package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/eternal-sentinels/es-archive/internal/model"
)

// ObjectRepo encapsulates all queries on the objects table.
type ObjectRepo struct {
	db *sql.DB
}

func NewObjectRepo(db *sql.DB) *ObjectRepo { return &ObjectRepo{db: db} }

const objectColumns = "id, number, name, codename, threat_class, description, special_procedures, secret_data, image_url, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanObject(s rowScanner) (*model.Object, error) {
	var o model.Object
	var procedures, secret, imageURL sql.NullString
	if err := s.Scan(&o.ID, &o.Number, &o.Name, &o.Codename, &o.ThreatClass, &o.Description,
		&procedures, &secret, &imageURL, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.SpecialProcedures = nullString(procedures)
	o.SecretData = nullString(secret)
	o.ImageURL = nullString(imageURL)
	return &o, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// List returns every object ordered by number.  Filtering by clearance is
// the caller's job.
func (r *ObjectRepo) List(ctx context.Context) ([]model.Object, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+objectColumns+" FROM objects ORDER BY number")
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}
	defer rows.Close()

	var out []model.Object
	for rows.Next() {
		o, err := scanObject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan object: %w", err)
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// GetByNumber fetches one object or ErrObjectNotFound.
func (r *ObjectRepo) GetByNumber(ctx context.Context, number string) (*model.Object, error) {
	o, err := scanObject(r.db.QueryRowContext(ctx,
		"SELECT "+objectColumns+" FROM objects WHERE number = ?", number))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("get object %s: %w", number, err)
	}
	return o, nil
}

// Count returns the number of stored objects.
func (r *ObjectRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM objects").Scan(&n)
	return n, err
}

// Create inserts o, assigning ID and CreatedAt.  A taken number yields
// ErrNumberExists.
func (r *ObjectRepo) Create(ctx context.Context, o *model.Object) error {
	o.ID = uuid.NewString()
	o.CreatedAt = now()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO objects ("+objectColumns+") VALUES (?,?,?,?,?,?,?,?,?,?)",
		o.ID, o.Number, o.Name, o.Codename, o.ThreatClass, o.Description,
		o.SpecialProcedures, o.SecretData, o.ImageURL, o.CreatedAt)
	if err != nil {
		if isDuplicate(err) {
			return ErrNumberExists
		}
		return fmt.Errorf("create object: %w", err)
	}
	return nil
}

// Update applies patch to the object with the given number and returns the
// stored result.
func (r *ObjectRepo) Update(ctx context.Context, number string, patch model.ObjectPatch) (*model.Object, error) {
	o, err := r.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	patch.Apply(o)
	_, err = r.db.ExecContext(ctx,
		`UPDATE objects SET name = ?, codename = ?, threat_class = ?, description = ?,
		 special_procedures = ?, secret_data = ?, image_url = ? WHERE number = ?`,
		o.Name, o.Codename, o.ThreatClass, o.Description,
		o.SpecialProcedures, o.SecretData, o.ImageURL, number)
	if err != nil {
		return nil, fmt.Errorf("update object %s: %w", number, err)
	}
	return o, nil
}

// Delete removes the object or returns ErrObjectNotFound.
func (r *ObjectRepo) Delete(ctx context.Context, number string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM objects WHERE number = ?", number)
	if err != nil {
		return fmt.Errorf("delete object %s: %w", number, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrObjectNotFound
	}
	return nil
}
