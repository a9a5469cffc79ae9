// Package clearance decides which object records a requester may read and
// which of their fields must be masked.  Every function here is pure and safe
// for concurrent use.
package clearance

import (
	"strings"

	"github.com/eternal-sentinels/es-archive/internal/model"
)

// Clearance levels range from MinLevel (guests and fresh accounts) to
// MaxLevel (administrative).
const (
	MinLevel = 1
	MaxLevel = 5
)

// SecretPlaceholder replaces secret_data for every requester below MaxLevel.
const SecretPlaceholder = "[ТРЕБУЕТСЯ УРОВЕНЬ ДОПУСКА 5]"

// requiredByClass maps the base threat class to the minimum clearance level.
var requiredByClass = map[string]int{
	"Threat":       1,
	"Hazard":       3,
	"Cataclysm":    3,
	"Collapse":     4,
	"Apex":         4,
	"Absolute":     5,
	"Annihilation": 5,
}

// ThreatClasses lists the recognised base labels in ascending severity.
var ThreatClasses = []string{"Threat", "Hazard", "Cataclysm", "Collapse", "Apex", "Absolute", "Annihilation"}

// Decision is the derived access judgment for one requester and one record.
type Decision struct {
	Required     int  // minimum level for the record's threat class
	Allowed      bool // requester may see the record
	RevealSecret bool // requester may see secret_data verbatim
}

// Required returns the minimum clearance for a threat class.  Only the token
// before the first space is looked up, so "Apex (Контролируемый)" resolves
// like "Apex".  Unknown and empty labels fail closed to MaxLevel.
func Required(threatClass string) int {
	base, _, _ := strings.Cut(threatClass, " ")
	if lvl, ok := requiredByClass[base]; ok {
		return lvl
	}
	return MaxLevel
}

// CanAccess reports whether a requester at level may read a record of the
// given threat class.
func CanAccess(level int, threatClass string) bool {
	return level >= Required(threatClass)
}

// RedactSecret returns secret unchanged only for level >= MaxLevel.  Below
// that the placeholder is returned even when secret is nil or empty, so the
// response shape never reveals whether a secret exists.
func RedactSecret(level int, secret *string) *string {
	if level >= MaxLevel {
		return secret
	}
	p := SecretPlaceholder
	return &p
}

// Decide bundles Required, CanAccess and the secret rule.
func Decide(level int, threatClass string) Decision {
	req := Required(threatClass)
	return Decision{
		Required:     req,
		Allowed:      level >= req,
		RevealSecret: level >= MaxLevel,
	}
}

// Redact returns a copy of obj whose secret has been masked for level.
func Redact(level int, obj model.Object) model.Object {
	obj.SecretData = RedactSecret(level, obj.SecretData)
	return obj
}

// Valid reports whether level lies in [MinLevel, MaxLevel].
func Valid(level int) bool {
	return level >= MinLevel && level <= MaxLevel
}
