package database

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// Dialect hides the differences between the supported SQL engines
type Dialect interface {
	// DriverName is the name registered with database/sql
	DriverName() string

	// DSN builds the connection string, adding any options the store relies on
	DSN(conn ConnConfig) string

	// RewriteQuery converts ? placeholders into the engine's own syntax
	RewriteQuery(query string) string

	// SupportsLastInsertId is false when inserts need RETURNING id
	SupportsLastInsertId() bool

	// ConfigureConnection tunes the pool and session settings after connecting
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir is the directory under migrations/ holding this engine's scripts
	MigrationsSubdir() string

	// CreateMigrationsTableQuery creates the table tracking applied migrations
	CreateMigrationsTableQuery() string

	// ResetSequenceQuery moves a table's id counter past its highest id.
	// Empty when explicit-id inserts already advance the counter.
	ResetSequenceQuery(table string) string

	// IsUniqueViolation reports whether err is a unique constraint failure
	IsUniqueViolation(err error) bool
}

// ConnConfig is where to find the database
type ConnConfig struct {
	// Path is the SQLite file
	Path string

	// URL is the PostgreSQL or MySQL connection URL
	URL string
}

// Pool limits shared by every engine
const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
	connMaxIdleTime = time.Minute
)

func applyPoolSettings(db *sql.DB) {
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetConnMaxIdleTime(connMaxIdleTime)
}

// numberPlaceholders converts ? placeholders to $1, $2, ... leaving
// question marks inside single-quoted literals alone.
func numberPlaceholders(query string) string {
	if !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inLiteral := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inLiteral = !inLiteral
			b.WriteByte(c)
		case c == '?' && !inLiteral:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
