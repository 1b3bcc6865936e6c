package boltconn

import (
	"time"

	"github.com/abdulrahman305/neo4j-jdbc/pkg/boltlog"
)

// Config bundles the connection-level settings the handshake/HELLO exchange
// leaves implicit, plus the bookmark and database-selector supplements.
type Config struct {
	// UserAgent identifies the client in HELLO's auth map.
	UserAgent string
	// Auth carries the HELLO credentials map verbatim (scheme, principal,
	// credentials, ...); the driver never interprets its contents.
	Auth map[string]any
	// Database selects a target database via the "db" key of BEGIN's and
	// RUN's metadata; HELLO does not carry it.
	// Empty means the server's default database.
	Database string
	// FetchSize is the default records-per-PULL a Stream uses when the
	// caller doesn't override it.
	FetchSize int64
	// MaxRows is the default total-row cap a Stream uses when the caller
	// doesn't override it. Zero means unbounded.
	MaxRows int64
	// ConnectTimeout is the TCP dial timeout that driverconfig.Dial applies.
	// The handshake and HELLO exchange are not bounded by it.
	ConnectTimeout time.Duration
	// QueryTimeout is carried with the settings, but Conn does not read it:
	// RUN/PULL/DISCARD are bounded only by the context passed to them, and
	// no operation returns ErrTimeout.
	QueryTimeout time.Duration
	// Logger receives connection-lifecycle log lines. Defaults to a no-op
	// logger if nil (boltlog.Noop()).
	Logger *boltlog.Logger
}

func (c Config) withDefaults() Config {
	if c.FetchSize <= 0 {
		c.FetchSize = 1000
	}
	if c.Logger == nil {
		c.Logger = boltlog.Noop()
	}
	return c
}
