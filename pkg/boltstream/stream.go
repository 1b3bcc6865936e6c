package boltstream

import (
	"context"
	"errors"
)

// ErrMaxRowsExceeded is never returned to the caller as a failure: reaching
// max_rows ends the stream the same way exhausting the server's records
// does (Next returns false, nil). No Stream method returns or exposes it, so
// the two causes are not distinguishable through a Stream.
var ErrMaxRowsExceeded = errors.New("boltstream: max_rows reached")

// Fetcher is the boltconn-side capability a Stream needs: advance the
// server-side cursor by at most n records, or release it entirely. Kept as
// an interface here (rather than importing pkg/boltconn) so boltstream has
// no dependency on the connection package; pkg/boltconn's cursor type
// implements it.
type Fetcher interface {
	// PullBatch requests up to n further records. The returned Summary's
	// HasMore reports whether the server-side cursor still has records
	// after this batch.
	PullBatch(ctx context.Context, n int64) ([]*Record, Summary, error)
	// Discard releases the remainder of the result without materialising
	// it, returning the terminal summary.
	Discard(ctx context.Context) (Summary, error)
}

// Stream is a finite, non-restartable, lazily-advanced sequence of records.
// It is created for a successful RUN and driven forward by
// PULL, respecting two client-side bounds: fetchSize (records requested per
// PULL) and maxRows (total cap across the stream's lifetime).
type Stream struct {
	fetcher    Fetcher
	fieldNames []string
	fetchSize  int64
	maxRows    int64

	buffer    []*Record
	bufferPos int
	emitted   int64
	done      bool
	summary   Summary
	current   *Record
}

// NewStream constructs a Stream over fetcher. fetchSize <= 0 means "use the
// server default batch size of 1000" (Bolt's conventional default); maxRows
// <= 0 means unbounded.
func NewStream(fetcher Fetcher, fieldNames []string, fetchSize, maxRows int64) *Stream {
	if fetchSize <= 0 {
		fetchSize = 1000
	}
	return &Stream{fetcher: fetcher, fieldNames: fieldNames, fetchSize: fetchSize, maxRows: maxRows}
}

// FieldNames returns the declared result field names.
func (s *Stream) FieldNames() []string { return s.fieldNames }

// Next advances to the next record, fetching a new batch from the server
// when the local buffer is exhausted. It returns (nil, false, nil) when the
// stream is exhausted, either because the server reported no more records
// or because maxRows was reached — in the latter case the remainder is
// discarded server-side before returning.
func (s *Stream) Next(ctx context.Context) (*Record, bool, error) {
	if s.current != nil {
		s.current.Close()
		s.current = nil
	}
	if s.bufferPos >= len(s.buffer) {
		if s.done {
			return nil, false, nil
		}
		if err := s.fill(ctx); err != nil {
			return nil, false, err
		}
		if s.bufferPos >= len(s.buffer) {
			return nil, false, nil
		}
	}
	rec := s.buffer[s.bufferPos]
	s.buffer[s.bufferPos] = nil
	s.bufferPos++
	s.emitted++
	s.current = rec
	return rec, true, nil
}

func (s *Stream) fill(ctx context.Context) error {
	n := s.fetchSize
	remaining := int64(-1)
	if s.maxRows > 0 {
		remaining = s.maxRows - s.emitted
		if remaining <= 0 {
			return s.finish(ctx)
		}
		if n > remaining {
			n = remaining
		}
	}
	records, summary, err := s.fetcher.PullBatch(ctx, n)
	if err != nil {
		s.done = true
		return err
	}
	capped := false
	if remaining >= 0 && int64(len(records)) > remaining {
		records = records[:remaining]
		capped = true
	}
	s.buffer = records
	s.bufferPos = 0
	s.summary = summary
	if capped || (remaining >= 0 && int64(len(records)) >= remaining) {
		// The buffered rows already satisfy max_rows; anything the server
		// still has queued beyond them must be released, but the capped
		// rows themselves are still served from s.buffer.
		return s.finish(ctx)
	}
	if !summary.HasMore {
		s.done = true
	}
	return nil
}

func (s *Stream) finish(ctx context.Context) error {
	if s.done {
		return nil
	}
	summary, err := s.fetcher.Discard(ctx)
	s.done = true
	if err != nil {
		return err
	}
	s.summary = summary
	return nil
}

// Close discards any remainder without materialising it. It is a no-op if
// the stream already ran to completion.
func (s *Stream) Close(ctx context.Context) error {
	if s.current != nil {
		s.current.Close()
		s.current = nil
	}
	return s.finish(ctx)
}

// Summary returns the terminal summary. It is only meaningful once the
// stream is exhausted (Next returned false) or Close has run.
func (s *Stream) Summary() Summary { return s.summary }
