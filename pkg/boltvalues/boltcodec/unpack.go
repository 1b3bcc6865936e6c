package boltcodec

import (
	"fmt"
	"strconv"

	"github.com/abdulrahman305/neo4j-jdbc/pkg/boltvalues"
	"github.com/abdulrahman305/neo4j-jdbc/pkg/packstream"
)

// Mode captures the protocol-version-dependent decoding choices.
type Mode struct {
	// UTCPatchEnabled selects which pair of date-time signatures is
	// accepted: 'F'/'f' when false (legacy), 'I'/'i' when true (UTC) —
	// versions >= 5.0 enable the UTC date-time encodings.
	UTCPatchEnabled bool
}

// Unpacker converts PackStream structures into boltvalues.Value according
// to the signature table.
type Unpacker struct {
	r    *packstream.Reader
	mode Mode
}

// NewUnpacker returns an Unpacker reading from r under mode.
func NewUnpacker(r *packstream.Reader, mode Mode) *Unpacker {
	return &Unpacker{r: r, mode: mode}
}

// Unpack decodes the next value.
func (u *Unpacker) Unpack() (boltvalues.Value, error) {
	tag, err := u.r.PeekType()
	if err != nil {
		return boltvalues.Value{}, err
	}
	switch tag {
	case packstream.TagNull:
		if err := u.r.ReadNull(); err != nil {
			return boltvalues.Value{}, err
		}
		return boltvalues.Null, nil
	case packstream.TagBoolean:
		b, err := u.r.ReadBoolean()
		if err != nil {
			return boltvalues.Value{}, err
		}
		return boltvalues.NewBoolean(b), nil
	case packstream.TagInteger:
		i, err := u.r.ReadInt()
		if err != nil {
			return boltvalues.Value{}, err
		}
		return boltvalues.NewInteger(i), nil
	case packstream.TagFloat:
		f, err := u.r.ReadFloat()
		if err != nil {
			return boltvalues.Value{}, err
		}
		return boltvalues.NewFloat(f), nil
	case packstream.TagBytes:
		b, err := u.r.ReadBytes()
		if err != nil {
			return boltvalues.Value{}, err
		}
		return boltvalues.NewBytes(b), nil
	case packstream.TagString:
		s, err := u.r.ReadString()
		if err != nil {
			return boltvalues.Value{}, err
		}
		return boltvalues.NewString(s), nil
	case packstream.TagList:
		return u.unpackList()
	case packstream.TagMap:
		return u.unpackMap()
	case packstream.TagStruct:
		return u.unpackStruct()
	default:
		return boltvalues.Value{}, violation("unexpected end of input")
	}
}

func (u *Unpacker) unpackList() (boltvalues.Value, error) {
	n, err := u.r.ReadListHeader()
	if err != nil {
		return boltvalues.Value{}, err
	}
	items := make([]boltvalues.Value, n)
	for i := 0; i < n; i++ {
		v, err := u.Unpack()
		if err != nil {
			return boltvalues.Value{}, err
		}
		items[i] = v
	}
	return boltvalues.NewList(items), nil
}

func (u *Unpacker) unpackMap() (boltvalues.Value, error) {
	m, err := u.unpackOrderedMap()
	if err != nil {
		return boltvalues.Value{}, err
	}
	return boltvalues.NewMap(m), nil
}

func (u *Unpacker) unpackOrderedMap() (*boltvalues.OrderedMap, error) {
	n, err := u.r.ReadMapHeader()
	if err != nil {
		return nil, err
	}
	m := boltvalues.NewOrderedMap()
	for i := 0; i < n; i++ {
		key, err := u.r.ReadString()
		if err != nil {
			return nil, violation("map key %d: %v", i, err)
		}
		v, err := u.Unpack()
		if err != nil {
			return nil, err
		}
		m.Set(key, v)
	}
	return m, nil
}

func (u *Unpacker) unpackStringList() ([]string, error) {
	n, err := u.r.ReadListHeader()
	if err != nil {
		return nil, err
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		s, err := u.r.ReadString()
		if err != nil {
			return nil, violation("string list element %d: %v", i, err)
		}
		out[i] = s
	}
	return out, nil
}

func (u *Unpacker) unpackStruct() (boltvalues.Value, error) {
	sig, fields, err := u.r.ReadStructHeader()
	if err != nil {
		return boltvalues.Value{}, err
	}

	accepted := acceptableFieldCounts(sig)
	if len(accepted) == 0 {
		return boltvalues.Value{}, violation("unknown structure signature 0x%02X", sig)
	}
	ok := false
	for _, n := range accepted {
		if n == fields {
			ok = true
			break
		}
	}
	if !ok {
		return boltvalues.Value{}, violation("signature 0x%02X (%q) declared %d fields, expected one of %v", sig, string(sig), fields, accepted)
	}

	if isUTCSignature(sig) && !u.mode.UTCPatchEnabled {
		return boltvalues.Value{}, violation("signature %q not allowed: UTC date-time mode disabled", string(sig))
	}
	if isLegacySignature(sig) && u.mode.UTCPatchEnabled {
		return boltvalues.Value{}, violation("signature %q not allowed: UTC date-time mode enabled", string(sig))
	}

	extended := extendedFieldCount[sig] == fields

	switch sig {
	case SigNode:
		return u.unpackNode(extended)
	case SigRelationship:
		return u.unpackRelationship(extended)
	case SigUnboundRelationship:
		r, err := u.unpackUnboundRelationship(extended)
		if err != nil {
			return boltvalues.Value{}, err
		}
		return boltvalues.NewRelationship(r), nil
	case SigPath:
		return u.unpackPath()
	case SigDate:
		return u.unpackDate()
	case SigTime:
		return u.unpackTime()
	case SigLocalTime:
		return u.unpackLocalTime()
	case SigLocalDateTime:
		return u.unpackLocalDateTime()
	case SigDateTimeLegacyOffset:
		return u.unpackDateTimeOffset(boltvalues.BaselineLegacy)
	case SigDateTimeUTCOffset:
		return u.unpackDateTimeOffset(boltvalues.BaselineUTC)
	case SigDateTimeLegacyZoneID:
		return u.unpackDateTimeZone(boltvalues.BaselineLegacy)
	case SigDateTimeUTCZoneID:
		return u.unpackDateTimeZone(boltvalues.BaselineUTC)
	case SigDuration:
		return u.unpackDuration()
	case SigPoint2D:
		return u.unpackPoint2D()
	case SigPoint3D:
		return u.unpackPoint3D()
	default:
		return boltvalues.Value{}, violation("unknown structure signature 0x%02X", sig)
	}
}

func (u *Unpacker) unpackNode(extended bool) (boltvalues.Value, error) {
	id, err := u.r.ReadInt()
	if err != nil {
		return boltvalues.Value{}, violation("node id: %v", err)
	}
	labels, err := u.unpackStringList()
	if err != nil {
		return boltvalues.Value{}, violation("node labels: %v", err)
	}
	props, err := u.unpackOrderedMap()
	if err != nil {
		return boltvalues.Value{}, violation("node properties: %v", err)
	}
	elementID := strconv.FormatInt(id, 10)
	if extended {
		elementID, err = u.r.ReadString()
		if err != nil {
			return boltvalues.Value{}, violation("node elementId: %v", err)
		}
	}
	return boltvalues.NewNode(&boltvalues.Node{ID: id, ElementID: elementID, Labels: labels, Properties: props}), nil
}

func (u *Unpacker) unpackRelationship(extended bool) (boltvalues.Value, error) {
	id, err := u.r.ReadInt()
	if err != nil {
		return boltvalues.Value{}, violation("relationship id: %v", err)
	}
	startID, err := u.r.ReadInt()
	if err != nil {
		return boltvalues.Value{}, violation("relationship startId: %v", err)
	}
	endID, err := u.r.ReadInt()
	if err != nil {
		return boltvalues.Value{}, violation("relationship endId: %v", err)
	}
	typ, err := u.r.ReadString()
	if err != nil {
		return boltvalues.Value{}, violation("relationship type: %v", err)
	}
	props, err := u.unpackOrderedMap()
	if err != nil {
		return boltvalues.Value{}, violation("relationship properties: %v", err)
	}
	elementID := strconv.FormatInt(id, 10)
	startElementID := strconv.FormatInt(startID, 10)
	endElementID := strconv.FormatInt(endID, 10)
	if extended {
		elementID, err = u.r.ReadString()
		if err != nil {
			return boltvalues.Value{}, violation("relationship elementId: %v", err)
		}
		startElementID, err = u.r.ReadString()
		if err != nil {
			return boltvalues.Value{}, violation("relationship startElementId: %v", err)
		}
		endElementID, err = u.r.ReadString()
		if err != nil {
			return boltvalues.Value{}, violation("relationship endElementId: %v", err)
		}
	}
	return boltvalues.NewRelationship(&boltvalues.Relationship{
		ID: id, ElementID: elementID,
		StartID: startID, StartElementID: startElementID,
		EndID: endID, EndElementID: endElementID,
		Type: typ, Properties: props,
	}), nil
}

// unpackUnboundRelationship reads an 'r' structure: id, type, props[, elementId].
// Start/end are left zero-valued; path assembly rebinds them.
func (u *Unpacker) unpackUnboundRelationship(extended bool) (*boltvalues.Relationship, error) {
	id, err := u.r.ReadInt()
	if err != nil {
		return nil, violation("unbound relationship id: %v", err)
	}
	typ, err := u.r.ReadString()
	if err != nil {
		return nil, violation("unbound relationship type: %v", err)
	}
	props, err := u.unpackOrderedMap()
	if err != nil {
		return nil, violation("unbound relationship properties: %v", err)
	}
	elementID := strconv.FormatInt(id, 10)
	if extended {
		elementID, err = u.r.ReadString()
		if err != nil {
			return nil, violation("unbound relationship elementId: %v", err)
		}
	}
	return &boltvalues.Relationship{ID: id, ElementID: elementID, Type: typ, Properties: props}, nil
}

// unpackPath reads unique_nodes[], unique_rels_without_endpoints[], and a
// sequence[] of alternating (rel_index, node_index) pairs, then assembles
// the canonical alternating Node/Relationship/.../Node sequence.
func (u *Unpacker) unpackPath() (boltvalues.Value, error) {
	nodeCount, err := u.r.ReadListHeader()
	if err != nil {
		return boltvalues.Value{}, violation("path unique_nodes header: %v", err)
	}
	uniqueNodes := make([]*boltvalues.Node, nodeCount)
	for i := 0; i < nodeCount; i++ {
		v, err := u.Unpack()
		if err != nil {
			return boltvalues.Value{}, violation("path unique_nodes[%d]: %v", i, err)
		}
		if v.Kind() != boltvalues.KindNode {
			return boltvalues.Value{}, violation("path unique_nodes[%d]: expected Node, got %s", i, v.Kind())
		}
		uniqueNodes[i] = v.AsNode()
	}

	relCount, err := u.r.ReadListHeader()
	if err != nil {
		return boltvalues.Value{}, violation("path unique_rels header: %v", err)
	}
	uniqueRels := make([]*boltvalues.Relationship, relCount)
	for i := 0; i < relCount; i++ {
		r, err := u.unpackUnboundRelationshipAuto()
		if err != nil {
			return boltvalues.Value{}, violation("path unique_rels[%d]: %v", i, err)
		}
		uniqueRels[i] = r
	}

	seqLen, err := u.r.ReadListHeader()
	if err != nil {
		return boltvalues.Value{}, violation("path sequence header: %v", err)
	}
	if seqLen%2 != 0 {
		return boltvalues.Value{}, violation("path sequence has odd length %d", seqLen)
	}
	seq := make([]int64, seqLen)
	for i := 0; i < seqLen; i++ {
		n, err := u.r.ReadInt()
		if err != nil {
			return boltvalues.Value{}, violation("path sequence[%d]: %v", i, err)
		}
		seq[i] = n
	}

	if nodeCount == 0 {
		return boltvalues.Value{}, violation("path must have at least one node")
	}

	nodes := []*boltvalues.Node{uniqueNodes[0]}
	rels := make([]*boltvalues.Relationship, 0, len(seq)/2)
	prev := uniqueNodes[0]
	for i := 0; i+1 < len(seq); i += 2 {
		relIdx := seq[i]
		nodeIdx := seq[i+1]
		if nodeIdx < 0 || int(nodeIdx) >= len(uniqueNodes) {
			return boltvalues.Value{}, violation("path sequence node index %d out of range", nodeIdx)
		}
		next := uniqueNodes[nodeIdx]

		reverse := relIdx < 0
		absIdx := relIdx
		if reverse {
			absIdx = -absIdx
		}
		ri := int(absIdx) - 1 // 1-based
		if ri < 0 || ri >= len(uniqueRels) {
			return boltvalues.Value{}, violation("path sequence relationship index %d out of range", relIdx)
		}
		rel := uniqueRels[ri]
		if reverse {
			boltvalues.Rebind(rel, next.ID, next.ElementID, prev.ID, prev.ElementID)
		} else {
			boltvalues.Rebind(rel, prev.ID, prev.ElementID, next.ID, next.ElementID)
		}
		rels = append(rels, rel)
		nodes = append(nodes, next)
		prev = next
	}

	return boltvalues.NewPath(&boltvalues.Path{Nodes: nodes, Relationships: rels}), nil
}

// unpackUnboundRelationshipAuto reads a structure header for a
// 'r'-signature unbound relationship within a path's unique_rels list and
// dispatches on its declared field count.
func (u *Unpacker) unpackUnboundRelationshipAuto() (*boltvalues.Relationship, error) {
	sig, fields, err := u.r.ReadStructHeader()
	if err != nil {
		return nil, err
	}
	if sig != SigUnboundRelationship {
		return nil, violation("expected unbound relationship signature 'r', got %q", string(sig))
	}
	accepted := acceptableFieldCounts(sig)
	ok := false
	for _, n := range accepted {
		if n == fields {
			ok = true
		}
	}
	if !ok {
		return nil, violation("unbound relationship declared %d fields, expected one of %v", fields, accepted)
	}
	return u.unpackUnboundRelationship(extendedFieldCount[sig] == fields)
}

func (u *Unpacker) unpackDate() (boltvalues.Value, error) {
	epochDay, err := u.r.ReadInt()
	if err != nil {
		return boltvalues.Value{}, violation("date epochDay: %v", err)
	}
	return boltvalues.NewDate(boltvalues.Date{EpochDay: epochDay}), nil
}

func (u *Unpacker) unpackTime() (boltvalues.Value, error) {
	nanos, err := u.r.ReadInt()
	if err != nil {
		return boltvalues.Value{}, violation("time nanos: %v", err)
	}
	offset, err := u.r.ReadInt()
	if err != nil {
		return boltvalues.Value{}, violation("time tzOffsetSeconds: %v", err)
	}
	return boltvalues.NewTime(boltvalues.Time{NanosOfDay: nanos, OffsetSecond: int32(offset)}), nil
}

func (u *Unpacker) unpackLocalTime() (boltvalues.Value, error) {
	nanos, err := u.r.ReadInt()
	if err != nil {
		return boltvalues.Value{}, violation("localtime nanos: %v", err)
	}
	return boltvalues.NewLocalTime(boltvalues.LocalTime{NanosOfDay: nanos}), nil
}

func (u *Unpacker) unpackLocalDateTime() (boltvalues.Value, error) {
	sec, err := u.r.ReadInt()
	if err != nil {
		return boltvalues.Value{}, violation("localdatetime epochSecond: %v", err)
	}
	nano, err := u.r.ReadInt()
	if err != nil {
		return boltvalues.Value{}, violation("localdatetime nano: %v", err)
	}
	return boltvalues.NewLocalDateTime(boltvalues.LocalDateTime{EpochSecond: sec, Nano: int32(nano)}), nil
}

func (u *Unpacker) unpackDateTimeOffset(baseline boltvalues.Baseline) (boltvalues.Value, error) {
	sec, err := u.r.ReadInt()
	if err != nil {
		return boltvalues.Value{}, violation("datetime epochSecond: %v", err)
	}
	nano, err := u.r.ReadInt()
	if err != nil {
		return boltvalues.Value{}, violation("datetime nano: %v", err)
	}
	offset, err := u.r.ReadInt()
	if err != nil {
		return boltvalues.Value{}, violation("datetime offsetSeconds: %v", err)
	}
	return boltvalues.NewDateTime(boltvalues.DateTime{
		EpochSecond: sec, Nano: int32(nano), Kind: boltvalues.ZoneOffset,
		Baseline: baseline, OffsetSecond: int32(offset),
	}), nil
}

func (u *Unpacker) unpackDateTimeZone(baseline boltvalues.Baseline) (boltvalues.Value, error) {
	sec, err := u.r.ReadInt()
	if err != nil {
		return boltvalues.Value{}, violation("datetime epochSecond: %v", err)
	}
	nano, err := u.r.ReadInt()
	if err != nil {
		return boltvalues.Value{}, violation("datetime nano: %v", err)
	}
	zoneID, err := u.r.ReadString()
	if err != nil {
		return boltvalues.Value{}, violation("datetime zoneId: %v", err)
	}
	if !isRecognisedZone(zoneID) {
		return boltvalues.NewUnsupported("DateTime", fmt.Sprintf("unrecognised time zone %q", zoneID)), nil
	}
	return boltvalues.NewDateTime(boltvalues.DateTime{
		EpochSecond: sec, Nano: int32(nano), Kind: boltvalues.ZoneNamed,
		Baseline: baseline, ZoneID: zoneID,
	}), nil
}

func (u *Unpacker) unpackDuration() (boltvalues.Value, error) {
	months, err := u.r.ReadInt()
	if err != nil {
		return boltvalues.Value{}, violation("duration months: %v", err)
	}
	days, err := u.r.ReadInt()
	if err != nil {
		return boltvalues.Value{}, violation("duration days: %v", err)
	}
	seconds, err := u.r.ReadInt()
	if err != nil {
		return boltvalues.Value{}, violation("duration seconds: %v", err)
	}
	nanos, err := u.r.ReadInt()
	if err != nil {
		return boltvalues.Value{}, violation("duration nanos: %v", err)
	}
	if nanos < 0 || nanos >= 1_000_000_000 {
		return boltvalues.Value{}, violation("duration nanos %d out of range [0, 1e9)", nanos)
	}
	return boltvalues.NewDuration(boltvalues.Duration{Months: months, Days: days, Seconds: seconds, Nanos: int32(nanos)}), nil
}

func (u *Unpacker) unpackPoint2D() (boltvalues.Value, error) {
	srid, err := u.r.ReadInt()
	if err != nil {
		return boltvalues.Value{}, violation("point2d srid: %v", err)
	}
	x, err := u.r.ReadFloat()
	if err != nil {
		return boltvalues.Value{}, violation("point2d x: %v", err)
	}
	y, err := u.r.ReadFloat()
	if err != nil {
		return boltvalues.Value{}, violation("point2d y: %v", err)
	}
	return boltvalues.NewPoint(boltvalues.NewPoint2D(int32(srid), x, y)), nil
}

func (u *Unpacker) unpackPoint3D() (boltvalues.Value, error) {
	srid, err := u.r.ReadInt()
	if err != nil {
		return boltvalues.Value{}, violation("point3d srid: %v", err)
	}
	x, err := u.r.ReadFloat()
	if err != nil {
		return boltvalues.Value{}, violation("point3d x: %v", err)
	}
	y, err := u.r.ReadFloat()
	if err != nil {
		return boltvalues.Value{}, violation("point3d y: %v", err)
	}
	z, err := u.r.ReadFloat()
	if err != nil {
		return boltvalues.Value{}, violation("point3d z: %v", err)
	}
	return boltvalues.NewPoint(boltvalues.NewPoint3D(int32(srid), x, y, z)), nil
}
