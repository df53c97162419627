package store

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	_ "github.com/mattn/go-sqlite3"
)

// Dialect hides the differences between the supported databases.
type Dialect interface {
	DriverName() string
	// Rebind rewrites ? placeholders into the driver's syntax.
	Rebind(query string) string
	CreateGenerationsTable() string
	Configure(db *sql.DB)
}

type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open connects to dbType ("postgres" or "sqlite") and pings it.
func Open(ctx context.Context, dbType, dsn string) (*DB, error) {
	var d Dialect
	switch strings.ToLower(dbType) {
	case "postgres", "postgresql", "pgx", "":
		d = postgresDialect{}
	case "sqlite", "sqlite3":
		d = sqliteDialect{}
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}

	db, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	d.Configure(db)

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return &DB{DB: db, Dialect: d}, nil
}

// EnsureSchema creates the tables this package writes to.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, db.Dialect.CreateGenerationsTable()); err != nil {
		return fmt.Errorf("create generations: %w", err)
	}
	return nil
}

var placeholderRe = regexp.MustCompile(`\?`)

func numberedPlaceholders(q string) string {
	n := 0
	return placeholderRe.ReplaceAllStringFunc(q, func(string) string {
		n++
		return "$" + strconv.Itoa(n)
	})
}

type postgresDialect struct{}

func (postgresDialect) DriverName() string     { return "pgx" }
func (postgresDialect) Rebind(q string) string { return numberedPlaceholders(q) }
func (postgresDialect) Configure(db *sql.DB) {
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)
}
func (postgresDialect) CreateGenerationsTable() string {
	return `
create table if not exists generations (
	id          text primary key,
	created_at  timestamptz not null default now(),
	kind        text not null,
	engine      text not null,
	model       text not null,
	subject     text not null,
	topic       text not null,
	status      text not null,
	error       text not null default '',
	latency_ms  bigint not null default 0
)`
}

type sqliteDialect struct{}

func (sqliteDialect) DriverName() string     { return "sqlite3" }
func (sqliteDialect) Rebind(q string) string { return q }

// Configure pins sqlite to one connection so ":memory:" databases are shared.
func (sqliteDialect) Configure(db *sql.DB) {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
}
func (sqliteDialect) CreateGenerationsTable() string {
	return `
create table if not exists generations (
	id          text primary key,
	created_at  datetime not null default current_timestamp,
	kind        text not null,
	engine      text not null,
	model       text not null,
	subject     text not null,
	topic       text not null,
	status      text not null,
	error       text not null default '',
	latency_ms  integer not null default 0
)`
}
