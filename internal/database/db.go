// Package database opens the optional MySQL connection used to audit
// booking intents.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Params are the connection settings read from DB_* variables.
type Params struct {
	User string
	Pass string
	Host string
	Port string
	Name string
}

// DSN renders p for the MySQL driver.  parseTime maps DATETIME to
// time.Time and loc=UTC keeps times consistent.
func (p Params) DSN() string {
	c := mysql.NewConfig()
	c.User = p.User
	c.Passwd = p.Pass
	c.Net = "tcp"
	c.Addr = p.Host + ":" + p.Port
	c.DBName = p.Name
	c.ParseTime = true
	c.Loc = time.UTC
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c.FormatDSN()
}

// Open connects to MySQL and verifies the connection.
func Open(ctx context.Context, p Params) (*sql.DB, error) {
	db, err := sql.Open("mysql", p.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

const schema = `CREATE TABLE IF NOT EXISTS booking_intents (
  id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
  session_id CHAR(36)      NOT NULL,
  unit_id    VARCHAR(64)   NOT NULL,
  kind       VARCHAR(16)   NOT NULL,
  target     VARCHAR(1024) NOT NULL,
  auto       TINYINT(1)    NOT NULL DEFAULT 0,
  created_at DATETIME      NOT NULL,
  KEY idx_booking_intents_created (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// EnsureSchema creates the booking_intents table when it is missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create booking_intents: %w", err)
	}
	return nil
}
