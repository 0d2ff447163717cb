// internal/config/database.go
package config

import (
	"fmt"
)

// DSN renders the key/value connection string understood by pgx. Timestamps
// are kept in UTC so review ordering does not depend on server locale.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC application_name=catalog-backend",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}
