package boltstream

import (
	"context"
	"errors"
	"testing"

	"github.com/abdulrahman305/neo4j-jdbc/pkg/boltvalues"
)

type fakeFetcher struct {
	batches    [][]*Record
	discarded  bool
	pullCalls  []int64
	discardSum Summary
}

func (f *fakeFetcher) PullBatch(ctx context.Context, n int64) ([]*Record, Summary, error) {
	f.pullCalls = append(f.pullCalls, n)
	if len(f.batches) == 0 {
		return nil, Summary{HasMore: false}, nil
	}
	batch := f.batches[0]
	f.batches = f.batches[1:]
	return batch, Summary{HasMore: len(f.batches) > 0}, nil
}

func (f *fakeFetcher) Discard(ctx context.Context) (Summary, error) {
	f.discarded = true
	return f.discardSum, nil
}

func row(n int64) *Record {
	return NewRecord([]string{"n"}, []boltvalues.Value{boltvalues.NewInteger(n)})
}

func TestStreamDrainsAllBatches(t *testing.T) {
	f := &fakeFetcher{batches: [][]*Record{{row(1), row(2)}, {row(3)}}}
	s := NewStream(f, []string{"n"}, 2, 0)

	var got []int64
	for {
		rec, ok, err := s.Next(context.Background())
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		v, err := rec.GetInt(0)
		if err != nil {
			t.Fatalf("GetInt: %v", err)
		}
		got = append(got, int64(v))
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("unexpected rows: %v", got)
	}
	if f.discarded {
		t.Fatal("should not discard when server reports no more records")
	}
}

func TestStreamRespectsMaxRows(t *testing.T) {
	f := &fakeFetcher{batches: [][]*Record{{row(1), row(2), row(3)}, {row(4)}}}
	s := NewStream(f, []string{"n"}, 10, 2)

	count := 0
	for {
		_, ok, err := s.Next(context.Background())
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		count++
	}
	if count != 2 {
		t.Fatalf("expected exactly 2 rows under max_rows, got %d", count)
	}
}

func TestRecordWasNullSemantics(t *testing.T) {
	rec := NewRecord([]string{"a"}, []boltvalues.Value{boltvalues.Null})
	if _, err := rec.WasNull(); !errors.Is(err, ErrNoRead) {
		t.Fatalf("expected ErrNoRead before any getter, got %v", err)
	}
	if _, err := rec.GetInt(0); err != nil {
		t.Fatalf("GetInt: %v", err)
	}
	wasNull, err := rec.WasNull()
	if err != nil {
		t.Fatalf("WasNull: %v", err)
	}
	if !wasNull {
		t.Fatal("expected was_null true after reading a Null field")
	}
	rec.Close()
	if _, err := rec.WasNull(); !errors.Is(err, ErrRecordClosed) {
		t.Fatalf("expected ErrRecordClosed after Close, got %v", err)
	}
}

func TestRecordGetByteOverflowCoercion(t *testing.T) {
	rec := NewRecord([]string{"a"}, []boltvalues.Value{boltvalues.NewInteger(128)})
	if _, err := rec.GetByte(0); err == nil {
		t.Fatal("expected Coercion error for 128 as byte")
	}
}

func TestRecordGetBooleanFromString(t *testing.T) {
	rec := NewRecord([]string{"a", "b"}, []boltvalues.Value{boltvalues.NewString("1"), boltvalues.NewString("2")})
	ok, err := rec.GetBoolean(0)
	if err != nil || !ok {
		t.Fatalf("GetBoolean(\"1\") = %v, %v; want true, nil", ok, err)
	}
	if _, err := rec.GetBoolean(1); err == nil {
		t.Fatal(`expected Coercion error for GetBoolean("2")`)
	}
}
