// internal/config/database.go
package config

import (
	"fmt"
)

// DSN builds the SQLite connection string. Foreign keys are off by
// default in SQLite, so they are enabled here; the busy timeout keeps
// concurrent writers from failing immediately on a locked database.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("file:%s?_fk=1&_busy_timeout=5000", d.Path)
}
