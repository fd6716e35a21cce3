package dbtools

import (
	"fmt"
	"strings"
)

// DatabaseConfig is the tagged variant accepted by connect_database. Only
// the fields relevant to Type are populated by the caller; the rest are
// ignored.
type DatabaseConfig struct {
	Type     string `json:"type"`
	File     string `json:"file,omitempty"`
	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
	Database string `json:"database,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// driverDSN resolves the config into the database/sql driver name and DSN
// for sql.Open, canonicalising Type case-insensitively.
func driverDSN(c DatabaseConfig) (driver, dsn string, err error) {
	switch strings.ToLower(c.Type) {
	case "sqlite":
		file := c.File
		if file == "" {
			return "", "", fmt.Errorf("sqlite config requires file")
		}
		return "sqlite", file + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", nil

	case "mysql":
		if c.Host == "" || c.Database == "" {
			return "", "", fmt.Errorf("mysql config requires host and database")
		}
		port := c.Port
		if port == 0 {
			port = 3306
		}
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
			c.Username, c.Password, c.Host, port, c.Database)
		return "mysql", dsn, nil

	case "postgresql", "postgres":
		if c.Host == "" || c.Database == "" {
			return "", "", fmt.Errorf("postgresql config requires host and database")
		}
		port := c.Port
		if port == 0 {
			port = 5432
		}
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			c.Username, c.Password, c.Host, port, c.Database)
		return "pgx", dsn, nil

	default:
		return "", "", fmt.Errorf("unsupported database type: %s", c.Type)
	}
}

// canonicalType lowercases the type discriminator for metrics and error
// messages.
func canonicalType(c DatabaseConfig) string {
	t := strings.ToLower(c.Type)
	if t == "postgres" {
		return "postgresql"
	}
	return t
}
