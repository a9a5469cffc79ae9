package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eternal-sentinels/es-archive/internal/clearance"
	"github.com/eternal-sentinels/es-archive/internal/database"
	"github.com/eternal-sentinels/es-archive/internal/repository"
)

func TestSeedObjectsCoverEveryThreatClass(t *testing.T) {
	objs, err := database.SeedObjects()
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, o := range objs {
		assert.NotEmpty(t, o.Number)
		assert.NotEmpty(t, o.Description, o.Number)
		seen[o.ThreatClass] = true
	}
	for _, class := range clearance.ThreatClasses {
		found := false
		for tc := range seen {
			if clearance.Required(tc) == clearance.Required(class) {
				found = true
			}
		}
		assert.True(t, found, class)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "es.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.Migrate(ctx, db, database.SQLite))
	require.NoError(t, database.Migrate(ctx, db, database.SQLite))

	objects := repository.NewObjectRepo(db)
	users := repository.NewUserRepo(db)
	hashed := 0
	admin := database.Admin{
		Username: "admin",
		Password: "admin123",
		Hash: func(p string) (string, error) {
			hashed++
			return "hash:" + p, nil
		},
	}

	res, err := database.Seed(ctx, objects, users, admin, repository.ErrUserNotFound)
	require.NoError(t, err)
	assert.True(t, res.AdminCreated)
	assert.Positive(t, res.Objects)

	res, err = database.Seed(ctx, objects, users, admin, repository.ErrUserNotFound)
	require.NoError(t, err)
	assert.False(t, res.AdminCreated)
	assert.Zero(t, res.Objects)
	assert.Equal(t, 1, hashed)

	u, err := users.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, 5, u.ClearanceLevel)
	assert.True(t, u.IsAdmin)
	assert.Equal(t, "hash:admin123", u.PasswordHash)

	exec, err := objects.GetByNumber(ctx, "0000")
	require.NoError(t, err)
	assert.Equal(t, "Палач Рока", exec.Name)
	assert.Equal(t, 5, clearance.Required(exec.ThreatClass))

	mal0, err := objects.GetByNumber(ctx, "0051")
	require.NoError(t, err)
	assert.Equal(t, 4, clearance.Required(mal0.ThreatClass))
}

func TestMigrateUnknownDriver(t *testing.T) {
	assert.Error(t, database.Migrate(context.Background(), nil, "postgres"))
}
