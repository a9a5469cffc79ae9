package database

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/eternal-sentinels/es-archive/internal/model"
)

//go:embed seed/objects.yaml
var objectsYAML []byte

// SeedObjects parses the embedded catalogue.
func SeedObjects() ([]model.Object, error) {
	var objs []model.Object
	if err := yaml.Unmarshal(objectsYAML, &objs); err != nil {
		return nil, fmt.Errorf("seed: parse objects: %w", err)
	}
	return objs, nil
}

// ObjectSeeder is the subset of the object repository used by Seed.
type ObjectSeeder interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, o *model.Object) error
}

// UserSeeder is the subset of the user repository used by Seed.
type UserSeeder interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
}

// Admin describes the administrative account ensured by Seed.
type Admin struct {
	Username string
	Password string
	Hash     func(plain string) (string, error)
}

// SeedResult reports what Seed inserted.
type SeedResult struct {
	Objects      int
	AdminCreated bool
}

// Seed loads the embedded catalogue when no objects exist and creates the
// administrative account when it is missing.  notFound is the sentinel the
// user store returns for an unknown username.
func Seed(ctx context.Context, objects ObjectSeeder, users UserSeeder, admin Admin, notFound error) (SeedResult, error) {
	var res SeedResult

	n, err := objects.Count(ctx)
	if err != nil {
		return res, fmt.Errorf("seed: count objects: %w", err)
	}
	if n == 0 {
		objs, err := SeedObjects()
		if err != nil {
			return res, err
		}
		for i := range objs {
			if err := objects.Create(ctx, &objs[i]); err != nil {
				return res, fmt.Errorf("seed: object %s: %w", objs[i].Number, err)
			}
			res.Objects++
		}
	}

	_, err = users.FindByUsername(ctx, admin.Username)
	switch {
	case err == nil:
		return res, nil
	case !errors.Is(err, notFound):
		return res, fmt.Errorf("seed: lookup admin: %w", err)
	}
	hash, err := admin.Hash(admin.Password)
	if err != nil {
		return res, fmt.Errorf("seed: hash admin password: %w", err)
	}
	u := &model.User{
		Username:       admin.Username,
		PasswordHash:   hash,
		ClearanceLevel: 5,
		IsActive:       true,
		IsAdmin:        true,
	}
	if err := users.Create(ctx, u); err != nil {
		return res, fmt.Errorf("seed: create admin: %w", err)
	}
	res.AdminCreated = true
	return res, nil
}
