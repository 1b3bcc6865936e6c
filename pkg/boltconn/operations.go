package boltconn

import (
	"bytes"
	"context"

	"github.com/abdulrahman305/neo4j-jdbc/pkg/boltstream"
	"github.com/abdulrahman305/neo4j-jdbc/pkg/boltvalues"
	"github.com/abdulrahman305/neo4j-jdbc/pkg/boltvalues/boltcodec"
	"github.com/abdulrahman305/neo4j-jdbc/pkg/packstream"
)

func (c *Conn) hello(ctx context.Context) error {
	auth := boltvalues.NewOrderedMap()
	for k, v := range c.cfg.Auth {
		cv, err := toValue(v)
		if err != nil {
			return err
		}
		auth.Set(k, cv)
	}
	if c.cfg.UserAgent != "" {
		auth.Set("user_agent", boltvalues.NewString(c.cfg.UserAgent))
	}
	msg, err := encodeMapMessage(c.mode, msgHello, auth)
	if err != nil {
		return err
	}
	replies, err := c.call(ctx, msg)
	if err != nil {
		return err
	}
	if replies[0].err != nil {
		return replies[0].err
	}
	c.setState(Ready)
	return nil
}

// Goodbye sends GOODBYE and closes the transport. Legal from any state.
func (c *Conn) Goodbye(ctx context.Context) error {
	if c.isClosed() {
		return nil
	}
	// The server sends no reply to GOODBYE, so nothing is read back.
	if err := c.sem.Acquire(ctx, 1); err == nil {
		_ = writeMessage(c.transport, encodeNoFieldMessage(msgGoodbye))
		c.sem.Release(1)
	}
	c.mu.Lock()
	c.state = Disconnected
	c.closed = true
	c.mu.Unlock()
	return c.transport.Close()
}

// Reset sends RESET. On success the connection returns to Ready from
// Failed (or stays usable from any other state); on failure it becomes
// Defunct.
func (c *Conn) Reset(ctx context.Context) error {
	replies, err := c.call(ctx, encodeNoFieldMessage(msgReset))
	if err != nil {
		c.markDefunct()
		return err
	}
	if replies[0].err != nil {
		c.markDefunct()
		return replies[0].err
	}
	c.setState(Ready)
	return nil
}

func (c *Conn) txMeta(extra map[string]boltvalues.Value) *boltvalues.OrderedMap {
	m := boltvalues.NewOrderedMap()
	if c.cfg.Database != "" {
		m.Set("db", boltvalues.NewString(c.cfg.Database))
	}
	if bm := c.LastBookmark(); bm != "" {
		m.Set("bookmarks", boltvalues.NewList([]boltvalues.Value{boltvalues.NewString(bm)}))
	}
	for k, v := range extra {
		m.Set(k, v)
	}
	return m
}

// Begin opens an explicit transaction (Ready -> TxReady).
func (c *Conn) Begin(ctx context.Context) error {
	if c.State() != Ready {
		return violation("BEGIN illegal in state %s", c.State())
	}
	msg, err := encodeMapMessage(c.mode, msgBegin, c.txMeta(nil))
	if err != nil {
		return err
	}
	replies, err := c.call(ctx, msg)
	if err != nil {
		return err
	}
	if replies[0].err != nil {
		return replies[0].err
	}
	c.setState(TxReady)
	return nil
}

// Commit ends the transaction (TxReady -> Ready), recording any returned
// bookmark.
func (c *Conn) Commit(ctx context.Context) error {
	if c.State() != TxReady {
		return violation("COMMIT illegal in state %s", c.State())
	}
	replies, err := c.call(ctx, encodeNoFieldMessage(msgCommit))
	if err != nil {
		return err
	}
	if replies[0].err != nil {
		return replies[0].err
	}
	if bm, ok := metaString(replies[0].meta, "bookmark"); ok {
		c.mu.Lock()
		c.bookmark = bm
		c.mu.Unlock()
	}
	c.setState(Ready)
	return nil
}

// Rollback aborts the transaction (TxReady -> Ready).
func (c *Conn) Rollback(ctx context.Context) error {
	if c.State() != TxReady {
		return violation("ROLLBACK illegal in state %s", c.State())
	}
	replies, err := c.call(ctx, encodeNoFieldMessage(msgRollback))
	if err != nil {
		return err
	}
	if replies[0].err != nil {
		return replies[0].err
	}
	c.setState(Ready)
	return nil
}

// Run executes query in auto-commit mode (Ready -> Streaming) or inside the
// open transaction (TxReady -> TxStreaming), returning a lazy
// boltstream.Stream whose FieldNames reports the declared field names.
// fetchSize/maxRows <= 0 fall back to
// cfg.FetchSize/cfg.MaxRows.
func (c *Conn) Run(ctx context.Context, query string, params map[string]any, fetchSize, maxRows int64) (*boltstream.Stream, error) {
	inTx := c.State() == TxReady
	if !inTx && c.State() != Ready {
		return nil, violation("RUN illegal in state %s", c.State())
	}
	paramMap := boltvalues.NewOrderedMap()
	for k, v := range params {
		cv, err := toValue(v)
		if err != nil {
			return nil, err
		}
		paramMap.Set(k, cv)
	}
	msg, err := encodeRunMessage(c.mode, query, paramMap, c.txMeta(nil))
	if err != nil {
		return nil, err
	}
	replies, err := c.call(ctx, msg)
	if err != nil {
		return nil, err
	}
	if replies[0].err != nil {
		return nil, replies[0].err
	}
	fields, err := runFieldNames(replies[0].meta)
	if err != nil {
		return nil, err
	}
	if inTx {
		c.setState(TxStreaming)
	} else {
		c.setState(Streaming)
	}
	if fetchSize <= 0 {
		fetchSize = c.cfg.FetchSize
	}
	if maxRows <= 0 {
		maxRows = c.cfg.MaxRows
	}
	cur := &cursor{conn: c, fieldNames: fields, inTx: inTx}
	return boltstream.NewStream(cur, fields, fetchSize, maxRows), nil
}

func runFieldNames(meta *boltvalues.OrderedMap) ([]string, error) {
	if meta == nil {
		return nil, violation("RUN SUCCESS missing metadata")
	}
	v, ok := meta.Get("fields")
	if !ok {
		return nil, nil
	}
	if v.Kind() != boltvalues.KindList {
		return nil, violation("RUN SUCCESS 'fields' is not a list")
	}
	items := v.AsList()
	names := make([]string, len(items))
	for i, it := range items {
		if it.Kind() != boltvalues.KindString {
			return nil, violation("RUN SUCCESS 'fields'[%d] is not a string", i)
		}
		names[i] = it.AsString()
	}
	return names, nil
}

func encodeRunMessage(mode boltcodec.Mode, query string, params, meta *boltvalues.OrderedMap) ([]byte, error) {
	var buf bytes.Buffer
	w := packstream.NewWriter(&buf)
	if err := w.WriteStructHeader(msgRun, 3); err != nil {
		return nil, err
	}
	if err := w.WriteString(query); err != nil {
		return nil, err
	}
	p := boltcodec.NewPacker(w, mode)
	if err := p.Pack(boltvalues.NewMap(params)); err != nil {
		return nil, err
	}
	if err := p.Pack(boltvalues.NewMap(meta)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func summaryFromMeta(meta *boltvalues.OrderedMap) boltstream.Summary {
	s := boltstream.Summary{}
	if hasMore, ok := metaBool(meta, "has_more"); ok {
		s.HasMore = hasMore
	}
	if bm, ok := metaString(meta, "bookmark"); ok {
		s.Bookmark = bm
	}
	if meta != nil {
		if v, ok := meta.Get("notifications"); ok && v.Kind() == boltvalues.KindList {
			for _, n := range v.AsList() {
				if n.Kind() != boltvalues.KindMap {
					continue
				}
				nm := n.AsMap()
				code, _ := metaString(nm, "code")
				title, _ := metaString(nm, "title")
				desc, _ := metaString(nm, "description")
				sev, _ := metaString(nm, "severity")
				cat, _ := metaString(nm, "category")
				s.Notifications = append(s.Notifications, boltstream.Notification{
					Code: code, Title: title, Description: desc, Severity: sev, Category: cat,
				})
			}
		}
		s.Counters = countersFromMeta(meta)
	}
	return s
}

func countersFromMeta(meta *boltvalues.OrderedMap) boltstream.Counters {
	v, ok := meta.Get("stats")
	if !ok || v.Kind() != boltvalues.KindMap {
		return boltstream.Counters{}
	}
	stats := v.AsMap()
	get := func(key string) int {
		n, _ := metaInt(stats, key)
		return int(n)
	}
	return boltstream.Counters{
		NodesCreated:         get("nodes-created"),
		NodesDeleted:         get("nodes-deleted"),
		RelationshipsCreated: get("relationships-created"),
		RelationshipsDeleted: get("relationships-deleted"),
		PropertiesSet:        get("properties-set"),
		LabelsAdded:          get("labels-added"),
		LabelsRemoved:        get("labels-removed"),
		IndexesAdded:         get("indexes-added"),
		IndexesRemoved:       get("indexes-removed"),
		ConstraintsAdded:     get("constraints-added"),
		ConstraintsRemoved:   get("constraints-removed"),
	}
}
