package driverconfig

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"github.com/abdulrahman305/neo4j-jdbc/pkg/boltconn"
	"github.com/abdulrahman305/neo4j-jdbc/pkg/boltlog"
	"github.com/abdulrahman305/neo4j-jdbc/pkg/utils"
)

// Address is the resolved host/port a bolt:// URI names.
type Address struct {
	Host string
	Port string
}

// ParseURI parses a `bolt://host:port` URI. The `bolt` scheme is the only
// one recognised; there is no TLS variant, since the connection actor
// speaks directly to a Transport and leaves transport security to the
// caller's net.Dialer.
func ParseURI(uri string) (Address, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return Address{}, utils.Wrap(err, "driverconfig: parse bolt uri")
	}
	if u.Scheme != "bolt" {
		return Address{}, fmt.Errorf("driverconfig: unsupported scheme %q, want \"bolt\"", u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return Address{}, fmt.Errorf("driverconfig: bolt uri %q has no host", uri)
	}
	port := u.Port()
	if port == "" {
		port = "7687"
	}
	return Address{Host: host, Port: port}, nil
}

func (a Address) String() string { return net.JoinHostPort(a.Host, a.Port) }

// Dial resolves d's bolt URI, opens a TCP connection, and completes the
// Bolt handshake/HELLO exchange over it. log is attached to the resulting
// Conn the same way ConnConfig attaches it.
func Dial(ctx context.Context, d *DriverConfig, log *boltlog.Logger) (*boltconn.Conn, error) {
	addr, err := ParseURI(d.Bolt.URI)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = boltlog.Noop()
	}
	dialer := &net.Dialer{}
	cfg := d.ConnConfig(log)
	if cfg.ConnectTimeout > 0 {
		dialer.Timeout = cfg.ConnectTimeout
	}
	transport, err := dialer.DialContext(ctx, "tcp", addr.String())
	if err != nil {
		return nil, utils.Wrap(err, "driverconfig: dial bolt address")
	}
	conn, err := boltconn.Connect(ctx, transport, cfg)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
