package aleph

import (
	"context"
	"fmt"
)

// Z3950Conn is one open session against a Z39.50 server. Implementations
// wrap a native toolkit binding (typically YAZ); the library only drives
// the protocol through this surface.
type Z3950Conn interface {
	// Search executes a Prefix Query Format query and returns its result
	// set. https://software.indexdata.com/yaz/doc/tools.html describes
	// the query syntax.
	Search(ctx context.Context, pqf string) (Z3950ResultSet, error)

	// Close releases the session.
	Close() error
}

// Z3950ResultSet is the server-held result of one query.
type Z3950ResultSet interface {
	// Len reports how many records the server found.
	Len() int

	// Record materializes the i-th result (0-based) as a MARC record.
	Record(i int) (*MarcRecord, error)
}

// Z3950Dialer opens a connection for the given config. Implementations are
// expected to set the MARC21 record syntax and the configured database name
// on the session before returning it.
type Z3950Dialer func(cfg Z3950Config) (Z3950Conn, error)

// Z3950Client searches an Aleph catalog over Z39.50.
type Z3950Client struct {
	cfg  Z3950Config
	conn Z3950Conn
}

// NewZ3950Client dials the configured server and wraps the session.
func NewZ3950Client(cfg Z3950Config, dial Z3950Dialer) (*Z3950Client, error) {
	if dial == nil {
		return nil, fmt.Errorf("z3950: no dialer provided")
	}
	conn, err := dial(cfg)
	if err != nil {
		return nil, fmt.Errorf("z3950 connect %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return &Z3950Client{cfg: cfg, conn: conn}, nil
}

// IsAvailable reports whether the session is open.
func (c *Z3950Client) IsAvailable() bool {
	return c.conn != nil
}

// Search executes a PQF query and materializes every matching record in
// result order.
func (c *Z3950Client) Search(ctx context.Context, pqf string) ([]*MarcRecord, error) {
	if c.conn == nil {
		return nil, fmt.Errorf("z3950: connection closed")
	}

	rs, err := c.conn.Search(ctx, pqf)
	if err != nil {
		return nil, fmt.Errorf("z3950 search: %w", err)
	}

	records := make([]*MarcRecord, 0, rs.Len())
	for i := 0; i < rs.Len(); i++ {
		rec, err := rs.Record(i)
		if err != nil {
			return nil, fmt.Errorf("z3950 record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Close releases the underlying session. It is safe to call twice.
func (c *Z3950Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
