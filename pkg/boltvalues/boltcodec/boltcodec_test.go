package boltcodec

import (
	"bytes"
	"testing"

	"github.com/abdulrahman305/neo4j-jdbc/pkg/boltvalues"
	"github.com/abdulrahman305/neo4j-jdbc/pkg/packstream"
)

func roundTrip(t *testing.T, mode Mode, v boltvalues.Value) boltvalues.Value {
	t.Helper()
	var buf bytes.Buffer
	p := NewPacker(packstream.NewWriter(&buf), mode)
	if err := p.Pack(v); err != nil {
		t.Fatalf("Pack: %v", err)
	}
	u := NewUnpacker(packstream.NewReader(&buf), mode)
	got, err := u.Unpack()
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	return got
}

func TestValueRoundTrip(t *testing.T) {
	mode := Mode{UTCPatchEnabled: true}
	props := boltvalues.NewOrderedMap()
	props.Set("name", boltvalues.NewString("Ada"))
	props.Set("age", boltvalues.NewInteger(36))

	values := []boltvalues.Value{
		boltvalues.Null,
		boltvalues.NewBoolean(true),
		boltvalues.NewInteger(-12345),
		boltvalues.NewFloat(3.14159),
		boltvalues.NewBytes([]byte{1, 2, 3}),
		boltvalues.NewString("hello"),
		boltvalues.NewList([]boltvalues.Value{boltvalues.NewInteger(1), boltvalues.NewString("x")}),
		boltvalues.NewMap(props),
		boltvalues.NewNode(&boltvalues.Node{ID: 1, ElementID: "1", Labels: []string{"Person"}, Properties: props}),
		boltvalues.NewRelationship(&boltvalues.Relationship{
			ID: 10, ElementID: "10",
			StartID: 1, StartElementID: "1",
			EndID: 2, EndElementID: "2",
			Type: "KNOWS", Properties: props,
		}),
		boltvalues.NewPath(&boltvalues.Path{
			Nodes: []*boltvalues.Node{
				{ID: 0, ElementID: "0"},
				{ID: 1, ElementID: "1"},
			},
			Relationships: []*boltvalues.Relationship{
				{ID: 1, ElementID: "r1", StartID: 0, StartElementID: "0", EndID: 1, EndElementID: "1", Type: "KNOWS", Properties: boltvalues.NewOrderedMap()},
			},
		}),
		boltvalues.NewPoint(boltvalues.NewPoint2D(7203, 1.0, 2.0)),
		boltvalues.NewPoint(boltvalues.NewPoint3D(7203, 1.0, 2.0, 3.0)),
		boltvalues.NewDate(boltvalues.Date{EpochDay: 19000}),
		boltvalues.NewDuration(boltvalues.Duration{Months: 1, Days: 2, Seconds: 3, Nanos: 4}),
		boltvalues.NewDateTime(boltvalues.DateTime{EpochSecond: 100, Nano: 5, Kind: boltvalues.ZoneOffset, Baseline: boltvalues.BaselineUTC, OffsetSecond: 3600}),
	}
	for _, v := range values {
		got := roundTrip(t, mode, v)
		if !got.Equal(v) {
			t.Fatalf("round trip mismatch for kind %s: got %+v, want %+v", v.Kind(), got, v)
		}
	}
}

func TestStructureWrongFieldCountFailsProtocolViolation(t *testing.T) {
	var buf bytes.Buffer
	w := packstream.NewWriter(&buf)
	// Date should have exactly 1 field; write 2.
	if err := w.WriteStructHeader(SigDate, 2); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteInt(1); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteInt(2); err != nil {
		t.Fatal(err)
	}
	u := NewUnpacker(packstream.NewReader(&buf), Mode{})
	_, err := u.Unpack()
	if err == nil {
		t.Fatal("expected ProtocolViolation")
	}
	if _, ok := err.(*ProtocolViolationError); !ok {
		t.Fatalf("expected *ProtocolViolationError, got %T: %v", err, err)
	}
}

func TestUTCModeGating(t *testing.T) {
	// 'F' (legacy offset datetime) while UTC mode enabled must fail.
	var buf bytes.Buffer
	w := packstream.NewWriter(&buf)
	_ = w.WriteStructHeader(SigDateTimeLegacyOffset, fieldCount[SigDateTimeLegacyOffset])
	_ = w.WriteInt(1)
	_ = w.WriteInt(2)
	_ = w.WriteInt(3)
	u := NewUnpacker(packstream.NewReader(&buf), Mode{UTCPatchEnabled: true})
	if _, err := u.Unpack(); err == nil {
		t.Fatal("expected failure decoding legacy 'F' under UTC mode")
	}

	// 'I' (UTC offset datetime) while UTC mode disabled must fail.
	buf.Reset()
	w = packstream.NewWriter(&buf)
	_ = w.WriteStructHeader(SigDateTimeUTCOffset, fieldCount[SigDateTimeUTCOffset])
	_ = w.WriteInt(1)
	_ = w.WriteInt(2)
	_ = w.WriteInt(3)
	u = NewUnpacker(packstream.NewReader(&buf), Mode{UTCPatchEnabled: false})
	if _, err := u.Unpack(); err == nil {
		t.Fatal("expected failure decoding 'I' under legacy mode")
	}
}

func TestPathReconstruction(t *testing.T) {
	n0 := &boltvalues.Node{ID: 0, ElementID: "0"}
	n1 := &boltvalues.Node{ID: 1, ElementID: "1"}
	n2 := &boltvalues.Node{ID: 2, ElementID: "2"}
	r1 := &boltvalues.Relationship{ID: 1, ElementID: "r1", Type: "KNOWS", Properties: boltvalues.NewOrderedMap()}
	r2 := &boltvalues.Relationship{ID: 2, ElementID: "r2", Type: "KNOWS", Properties: boltvalues.NewOrderedMap()}

	var buf bytes.Buffer
	w := packstream.NewWriter(&buf)
	if err := w.WriteStructHeader(SigPath, fieldCount[SigPath]); err != nil {
		t.Fatal(err)
	}
	// unique_nodes: [n0, n1, n2]
	if err := w.WriteListHeader(3); err != nil {
		t.Fatal(err)
	}
	for _, n := range []*boltvalues.Node{n0, n1, n2} {
		writeNode(t, w, n)
	}
	// unique_rels_without_endpoints: [r1, r2]
	if err := w.WriteListHeader(2); err != nil {
		t.Fatal(err)
	}
	for _, r := range []*boltvalues.Relationship{r1, r2} {
		writeUnboundRel(t, w, r)
	}
	// sequence: [1, 1, -2, 0]
	if err := w.WriteListHeader(4); err != nil {
		t.Fatal(err)
	}
	for _, n := range []int64{1, 1, -2, 0} {
		if err := w.WriteInt(n); err != nil {
			t.Fatal(err)
		}
	}

	u := NewUnpacker(packstream.NewReader(&buf), Mode{})
	v, err := u.Unpack()
	if err != nil {
		t.Fatalf("Unpack path: %v", err)
	}
	path := v.AsPath()
	if len(path.Nodes) != 3 || len(path.Relationships) != 2 {
		t.Fatalf("unexpected path shape: %d nodes, %d rels", len(path.Nodes), len(path.Relationships))
	}
	if path.Nodes[0].ID != 0 || path.Nodes[1].ID != 1 || path.Nodes[2].ID != 0 {
		t.Fatalf("unexpected path node sequence: %d %d %d", path.Nodes[0].ID, path.Nodes[1].ID, path.Nodes[2].ID)
	}
	gotR1 := path.Relationships[0]
	if gotR1.StartID != 0 || gotR1.EndID != 1 {
		t.Fatalf("r1 expected bound 0->1, got %d->%d", gotR1.StartID, gotR1.EndID)
	}
	gotR2 := path.Relationships[1]
	if gotR2.StartID != 0 || gotR2.EndID != 1 {
		t.Fatalf("r2 expected bound 0->1 (reversed hop, same physical direction as r1), got %d->%d", gotR2.StartID, gotR2.EndID)
	}
}

func writeNode(t *testing.T, w *packstream.Writer, n *boltvalues.Node) {
	t.Helper()
	if err := w.WriteStructHeader(SigNode, extendedFieldCount[SigNode]); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteInt(n.ID); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteListHeader(0); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteMapHeader(0); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteString(n.ElementID); err != nil {
		t.Fatal(err)
	}
}

func writeUnboundRel(t *testing.T, w *packstream.Writer, r *boltvalues.Relationship) {
	t.Helper()
	if err := w.WriteStructHeader(SigUnboundRelationship, extendedFieldCount[SigUnboundRelationship]); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteInt(r.ID); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteString(r.Type); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteMapHeader(0); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteString(r.ElementID); err != nil {
		t.Fatal(err)
	}
}

func FuzzValueIntRoundTrip(f *testing.F) {
	f.Add(int64(0))
	f.Add(int64(-1))
	f.Add(int64(1 << 40))
	f.Fuzz(func(t *testing.T, n int64) {
		v := boltvalues.NewInteger(n)
		got := roundTrip(t, Mode{}, v)
		if !got.Equal(v) {
			t.Fatalf("round trip mismatch: got %d, want %d", got.AsInteger(), n)
		}
	})
}
