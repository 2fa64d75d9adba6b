// internal/config/database.go
package config

import (
	"fmt"
)

// DSN assembles the postgres connection string. application_name tags the
// engine's sessions in pg_stat_activity.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s application_name=nil-compliance",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}
