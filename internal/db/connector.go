// Package db manages the lifetime of the MySQL connection handle.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Connect opens a MySQL handle for dsn and verifies it with a ping bounded by
// timeoutSec. The returned handle is pooled; the caller closes it on shutdown.
func Connect(dsn string, timeoutSec int) (*sql.DB, error) {
	dbConn, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql handle: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
	defer cancel()
	if err := dbConn.PingContext(ctx); err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return dbConn, nil
}
