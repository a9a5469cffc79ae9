// Package repository contains data access logic separated from HTTP
// handlers.  Every repository takes a *sql.DB and speaks the portable subset
// of SQL understood by both MySQL and SQLite.
//
// The sentinel values below let handlers distinguish failure scenarios
// without inspecting driver errors.
package repository

import (
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrObjectNotFound is returned when no object has the requested number.
	ErrObjectNotFound = errors.New("object not found")
	// ErrNumberExists is returned when an object number is already taken.
	ErrNumberExists = errors.New("object number already exists")
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameExists is returned when registering a taken username.
	ErrUsernameExists = errors.New("username already exists")
	// ErrTokenInvalid covers unknown, revoked and expired refresh tokens.
	ErrTokenInvalid = errors.New("refresh token invalid")
	// ErrDossierNotFound is returned when no dossier has the requested id.
	ErrDossierNotFound = errors.New("dossier not found")
	// ErrPendingDossier is returned when the user already awaits moderation.
	ErrPendingDossier = errors.New("pending dossier already exists")
)

// isDuplicate reports a unique-key violation from either driver.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

// now is the clock used for stored timestamps.  Times are written from Go in
// UTC so both drivers order them the same way.
var now = func() time.Time { return time.Now().UTC() }
