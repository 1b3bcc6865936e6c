package boltconn

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/abdulrahman305/neo4j-jdbc/pkg/boltlog"
	"github.com/abdulrahman305/neo4j-jdbc/pkg/boltvalues"
	"github.com/abdulrahman305/neo4j-jdbc/pkg/boltvalues/boltcodec"
	"github.com/abdulrahman305/neo4j-jdbc/pkg/packstream"
)

// Transport is what Conn needs from the underlying byte stream: a
// connection is its exclusive owner.
type Transport interface {
	io.Reader
	io.Writer
	io.Closer
}

// Conn is the per-connection actor: it owns a framed transport, negotiates
// a protocol version, authenticates, and serialises the
// BEGIN/RUN/PULL/DISCARD/COMMIT/ROLLBACK/RESET/GOODBYE message pipeline.
// A Conn is single-threaded cooperative: its sem caps concurrent transport
// access at one in-flight round trip, so a single connection never
// multiplexes unrelated callers concurrently.
type Conn struct {
	cfg       Config
	transport Transport
	mode      boltcodec.Mode
	sem       *semaphore.Weighted
	log       *boltlog.Logger
	id        string

	mu       sync.Mutex
	state    State
	bookmark string
	closed   bool
}

// Connect performs the handshake and HELLO exchange over transport and
// returns a ready Conn.
func Connect(ctx context.Context, transport Transport, cfg Config) (*Conn, error) {
	cfg = cfg.withDefaults()
	major, minor, err := handshake(transport, defaultVersionProposals())
	if err != nil {
		_ = transport.Close()
		return nil, err
	}
	id := uuid.NewString()
	c := &Conn{
		cfg:       cfg,
		transport: transport,
		mode:      boltcodec.Mode{UTCPatchEnabled: utcPatchEnabled(major, minor)},
		sem:       semaphore.NewWeighted(1),
		log:       cfg.Logger.With("conn", id),
		id:        id,
		state:     Connected,
	}
	c.log.Infof("handshake complete: negotiated Bolt %d.%d", major, minor)
	if err := c.hello(ctx); err != nil {
		c.markDefunct()
		return nil, err
	}
	return c, nil
}

// ID returns the connection's correlation id, used in log fields.
func (c *Conn) ID() string { return c.id }

// State returns the connection's current lifecycle state.
func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastBookmark returns the most recent bookmark observed from a COMMIT's
// SUCCESS metadata.
func (c *Conn) LastBookmark() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bookmark
}

func (c *Conn) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Conn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Conn) markDefunct() {
	c.mu.Lock()
	c.state = Defunct
	c.closed = true
	c.mu.Unlock()
	_ = c.transport.Close()
}

// reply is one decoded message envelope, or a synthesized failure for an
// IGNORED reply.
type reply struct {
	sig    byte
	meta   *boltvalues.OrderedMap
	fields []boltvalues.Value
	err    error
}

// call writes each of msgs as its own chunked message, in order (true wire
// pipelining, sending subsequent messages before the first reply arrives),
// then reads exactly len(msgs) replies in the same order. Once an earlier
// message fails, subsequent replies arrive as IGNORED from the server; call
// surfaces the original failure for each of them rather than a generic
// ignored marker.
func (c *Conn) call(ctx context.Context, msgs ...[]byte) ([]reply, error) {
	if c.isClosed() {
		return nil, ErrConnectionClosed
	}
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.sem.Release(1)

	for _, m := range msgs {
		if err := writeMessage(c.transport, m); err != nil {
			c.markDefunct()
			return nil, fmt.Errorf("boltconn: writing message: %w", ErrConnectionClosed)
		}
	}

	replies := make([]reply, len(msgs))
	var failure error
	for i := range msgs {
		sig, meta, fields, err := c.readOneEnvelope(ctx)
		if err != nil {
			c.markDefunct()
			for j := i; j < len(msgs); j++ {
				replies[j] = reply{err: err}
			}
			return replies, err
		}
		switch sig {
		case msgFailure:
			code, _ := metaString(meta, "code")
			message, _ := metaString(meta, "message")
			failure = newServerFailure(code, message)
			replies[i] = reply{sig: sig, meta: meta, err: failure}
			c.setState(Failed)
		case msgIgnored:
			if failure == nil {
				failure = violation("received IGNORED with no prior failure in this batch")
			}
			replies[i] = reply{sig: sig, err: failure}
		default:
			replies[i] = reply{sig: sig, meta: meta, fields: fields}
		}
	}
	return replies, failure
}

// readOneEnvelope blocks for the next message. If ctx is cancelled while
// waiting, it issues RESET and returns ErrCancelled; the caller of call()
// treats that the same as any other read failure.
func (c *Conn) readOneEnvelope(ctx context.Context) (byte, *boltvalues.OrderedMap, []boltvalues.Value, error) {
	type result struct {
		sig    byte
		meta   *boltvalues.OrderedMap
		fields []boltvalues.Value
		err    error
	}
	resCh := make(chan result, 1)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sig, meta, fields, err := c.readEnvelope()
		resCh <- result{sig, meta, fields, err}
		return err
	})
	select {
	case r := <-resCh:
		_ = g.Wait()
		return r.sig, r.meta, r.fields, r.err
	case <-gctx.Done():
		if cerr := writeMessage(c.transport, encodeNoFieldMessage(msgReset)); cerr != nil {
			return 0, nil, nil, fmt.Errorf("boltconn: cancel RESET failed: %w", cerr)
		}
		return 0, nil, nil, ErrCancelled
	}
}

// readEnvelope reassembles one chunked message and decodes its envelope.
func (c *Conn) readEnvelope() (byte, *boltvalues.OrderedMap, []boltvalues.Value, error) {
	raw, err := readMessage(c.transport)
	if err != nil {
		return 0, nil, nil, err
	}
	pr := packstream.NewReader(bytes.NewReader(raw))
	sig, n, err := pr.ReadStructHeader()
	if err != nil {
		return 0, nil, nil, err
	}
	u := boltcodec.NewUnpacker(pr, c.mode)
	switch sig {
	case msgSuccess, msgFailure:
		if n != 1 {
			return 0, nil, nil, violation("%s expects 1 field, got %d", messageName(sig), n)
		}
		v, err := u.Unpack()
		if err != nil {
			return 0, nil, nil, err
		}
		if v.Kind() != boltvalues.KindMap {
			return 0, nil, nil, violation("%s field is not a map", messageName(sig))
		}
		return sig, v.AsMap(), nil, nil
	case msgIgnored:
		if n != 0 {
			return 0, nil, nil, violation("IGNORED expects 0 fields, got %d", n)
		}
		return sig, nil, nil, nil
	case msgRecord:
		if n != 1 {
			return 0, nil, nil, violation("RECORD expects 1 field, got %d", n)
		}
		v, err := u.Unpack()
		if err != nil {
			return 0, nil, nil, err
		}
		if v.Kind() != boltvalues.KindList {
			return 0, nil, nil, violation("RECORD field is not a list")
		}
		return sig, nil, v.AsList(), nil
	default:
		return 0, nil, nil, violation("unexpected message signature %#x", sig)
	}
}

func encodeNoFieldMessage(sig byte) []byte {
	var buf bytes.Buffer
	w := packstream.NewWriter(&buf)
	_ = w.WriteStructHeader(sig, 0)
	return buf.Bytes()
}

func encodeMapMessage(mode boltcodec.Mode, sig byte, fields ...*boltvalues.OrderedMap) ([]byte, error) {
	var buf bytes.Buffer
	w := packstream.NewWriter(&buf)
	if err := w.WriteStructHeader(sig, len(fields)); err != nil {
		return nil, err
	}
	p := boltcodec.NewPacker(w, mode)
	for _, f := range fields {
		if err := p.Pack(boltvalues.NewMap(f)); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
