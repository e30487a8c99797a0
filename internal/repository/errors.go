// Package repository holds the MySQL-backed stores.  The sentinel errors
// here let handlers tell an unavailable store apart from a failed query.
package repository

import "errors"

// ErrUnavailable is returned by a repository that holds no database
// connection.
// Handlers should translate this into an HTTP 503 response.
var ErrUnavailable = errors.New("database not configured")
