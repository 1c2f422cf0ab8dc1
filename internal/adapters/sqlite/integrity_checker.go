package sqlite

import (
	"fmt"

	"github.com/researchctl/sentinel/internal/db"
	"github.com/researchctl/sentinel/internal/ports/secondary"
)

// IntegrityChecker implements secondary.IntegrityChecker by running
// SQLite's own PRAGMA integrity_check against each logical database.
type IntegrityChecker struct {
	dbs *db.Set
}

// NewIntegrityChecker creates a new IntegrityChecker.
func NewIntegrityChecker(dbs *db.Set) *IntegrityChecker {
	return &IntegrityChecker{dbs: dbs}
}

// Databases lists every logical database name known to the bootstrap
// schema set.
func (c *IntegrityChecker) Databases() []string {
	return db.Names()
}

// Check runs PRAGMA integrity_check against the named database. SQLite
// returns a single row "ok" when the database is sound, otherwise one row
// per defect found.
func (c *IntegrityChecker) Check(name string) (bool, string, error) {
	conn := c.dbs.DB(name)
	if conn == nil {
		return false, "", fmt.Errorf("unknown database %s", name)
	}
	var result string
	if err := conn.QueryRow(`PRAGMA integrity_check`).Scan(&result); err != nil {
		return false, "", fmt.Errorf("failed to run integrity check on %s: %w", name, err)
	}
	if result == "ok" {
		return true, "", nil
	}
	return false, result, nil
}

var _ secondary.IntegrityChecker = (*IntegrityChecker)(nil)
