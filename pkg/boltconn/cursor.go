package boltconn

import (
	"context"

	"github.com/abdulrahman305/neo4j-jdbc/pkg/boltstream"
	"github.com/abdulrahman305/neo4j-jdbc/pkg/boltvalues"
)

// cursor implements boltstream.Fetcher over a single Conn's RUN result.
// Unlike call()'s one-message-one-reply batching, a PULL or DISCARD
// produces a variable number of RECORD replies followed by one terminal
// SUCCESS/FAILURE, so it is driven directly rather than through call().
type cursor struct {
	conn       *Conn
	fieldNames []string
	inTx       bool
}

func (cur *cursor) PullBatch(ctx context.Context, n int64) ([]*boltstream.Record, boltstream.Summary, error) {
	meta := boltvalues.NewOrderedMap()
	meta.Set("n", boltvalues.NewInteger(n))
	msg, err := encodeMapMessage(cur.conn.mode, msgPull, meta)
	if err != nil {
		return nil, boltstream.Summary{}, err
	}
	return cur.conn.streamRequest(ctx, msg, cur.fieldNames, cur.inTx)
}

func (cur *cursor) Discard(ctx context.Context) (boltstream.Summary, error) {
	meta := boltvalues.NewOrderedMap()
	meta.Set("n", boltvalues.NewInteger(-1))
	msg, err := encodeMapMessage(cur.conn.mode, msgDiscard, meta)
	if err != nil {
		return boltstream.Summary{}, err
	}
	_, summary, err := cur.conn.streamRequest(ctx, msg, cur.fieldNames, cur.inTx)
	return summary, err
}

// streamRequest sends a single PULL or DISCARD message and reads its
// RECORD* + terminal-SUCCESS/FAILURE reply sequence, landing the
// connection on Ready/TxReady when the summary reports no more records.
func (c *Conn) streamRequest(ctx context.Context, msg []byte, fieldNames []string, inTx bool) ([]*boltstream.Record, boltstream.Summary, error) {
	if c.isClosed() {
		return nil, boltstream.Summary{}, ErrConnectionClosed
	}
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, boltstream.Summary{}, err
	}
	defer c.sem.Release(1)

	if err := writeMessage(c.transport, msg); err != nil {
		c.markDefunct()
		return nil, boltstream.Summary{}, ErrConnectionClosed
	}

	var records []*boltstream.Record
	for {
		sig, meta, fields, err := c.readOneEnvelope(ctx)
		if err != nil {
			c.markDefunct()
			return nil, boltstream.Summary{}, err
		}
		switch sig {
		case msgRecord:
			records = append(records, boltstream.NewRecord(fieldNames, fields))
		case msgSuccess:
			summary := summaryFromMeta(meta)
			if summary.HasMore {
				if inTx {
					c.setState(TxStreaming)
				} else {
					c.setState(Streaming)
				}
			} else {
				if bm := summary.Bookmark; bm != "" {
					c.mu.Lock()
					c.bookmark = bm
					c.mu.Unlock()
				}
				if inTx {
					c.setState(TxReady)
				} else {
					c.setState(Ready)
				}
			}
			return records, summary, nil
		case msgFailure:
			code, _ := metaString(meta, "code")
			message, _ := metaString(meta, "message")
			c.setState(Failed)
			return nil, boltstream.Summary{}, newServerFailure(code, message)
		default:
			return nil, boltstream.Summary{}, violation("unexpected reply %s to PULL/DISCARD", messageName(sig))
		}
	}
}
