package boltcodec

import (
	"github.com/abdulrahman305/neo4j-jdbc/pkg/boltvalues"
	"github.com/abdulrahman305/neo4j-jdbc/pkg/packstream"
)

// Packer inverts Unpacker: it writes boltvalues.Value onto a packstream.Writer.
type Packer struct {
	w    *packstream.Writer
	mode Mode
}

// NewPacker returns a Packer writing to w under mode.
func NewPacker(w *packstream.Writer, mode Mode) *Packer {
	return &Packer{w: w, mode: mode}
}

// Pack encodes v.
func (p *Packer) Pack(v boltvalues.Value) error {
	switch v.Kind() {
	case boltvalues.KindNull:
		return p.w.WriteNull()
	case boltvalues.KindBoolean:
		return p.w.WriteBoolean(v.AsBoolean())
	case boltvalues.KindInteger:
		return p.w.WriteInt(v.AsInteger())
	case boltvalues.KindFloat:
		return p.w.WriteFloat(v.AsFloat())
	case boltvalues.KindBytes:
		return p.w.WriteBytes(v.AsBytes())
	case boltvalues.KindString:
		return p.w.WriteString(v.AsString())
	case boltvalues.KindList:
		return p.packList(v.AsList())
	case boltvalues.KindMap:
		return p.packOrderedMap(v.AsMap())
	case boltvalues.KindNode:
		return p.packNode(v.AsNode())
	case boltvalues.KindRelationship:
		return p.packRelationship(v.AsRelationship())
	case boltvalues.KindPath:
		return p.packPath(v.AsPath())
	case boltvalues.KindPoint:
		return p.packPoint(v.AsPoint())
	case boltvalues.KindDate:
		return p.packDate(v.AsDate())
	case boltvalues.KindTime:
		return p.packTime(v.AsTime())
	case boltvalues.KindLocalTime:
		return p.packLocalTime(v.AsLocalTime())
	case boltvalues.KindLocalDateTime:
		return p.packLocalDateTime(v.AsLocalDateTime())
	case boltvalues.KindDateTime:
		return p.packDateTime(v.AsDateTime())
	case boltvalues.KindDuration:
		return p.packDuration(v.AsDuration())
	case boltvalues.KindUnsupported:
		return violation("cannot pack an Unsupported value (%s)", v.AsUnsupported().Error())
	default:
		return violation("cannot pack value of kind %s", v.Kind())
	}
}

func (p *Packer) packList(items []boltvalues.Value) error {
	if err := p.w.WriteListHeader(len(items)); err != nil {
		return err
	}
	for _, item := range items {
		if err := p.Pack(item); err != nil {
			return err
		}
	}
	return nil
}

func (p *Packer) packOrderedMap(m *boltvalues.OrderedMap) error {
	if m == nil {
		return p.w.WriteMapHeader(0)
	}
	if err := p.w.WriteMapHeader(m.Len()); err != nil {
		return err
	}
	for _, k := range m.Keys() {
		if err := p.w.WriteString(k); err != nil {
			return err
		}
		v, _ := m.Get(k)
		if err := p.Pack(v); err != nil {
			return err
		}
	}
	return nil
}

func (p *Packer) packStringList(items []string) error {
	if err := p.w.WriteListHeader(len(items)); err != nil {
		return err
	}
	for _, s := range items {
		if err := p.w.WriteString(s); err != nil {
			return err
		}
	}
	return nil
}

// packNode always writes the extended (elementId-bearing) form: the
// unpacker accepts both, and a freshly packed value should carry the
// element id it was constructed with.
func (p *Packer) packNode(n *boltvalues.Node) error {
	if err := p.w.WriteStructHeader(SigNode, extendedFieldCount[SigNode]); err != nil {
		return err
	}
	if err := p.w.WriteInt(n.ID); err != nil {
		return err
	}
	if err := p.packStringList(n.Labels); err != nil {
		return err
	}
	if err := p.packOrderedMap(n.Properties); err != nil {
		return err
	}
	return p.w.WriteString(n.ElementID)
}

func (p *Packer) packRelationship(r *boltvalues.Relationship) error {
	if err := p.w.WriteStructHeader(SigRelationship, extendedFieldCount[SigRelationship]); err != nil {
		return err
	}
	if err := p.w.WriteInt(r.ID); err != nil {
		return err
	}
	if err := p.w.WriteInt(r.StartID); err != nil {
		return err
	}
	if err := p.w.WriteInt(r.EndID); err != nil {
		return err
	}
	if err := p.w.WriteString(r.Type); err != nil {
		return err
	}
	if err := p.packOrderedMap(r.Properties); err != nil {
		return err
	}
	if err := p.w.WriteString(r.ElementID); err != nil {
		return err
	}
	if err := p.w.WriteString(r.StartElementID); err != nil {
		return err
	}
	return p.w.WriteString(r.EndElementID)
}

func (p *Packer) packUnboundRelationship(r *boltvalues.Relationship) error {
	if err := p.w.WriteStructHeader(SigUnboundRelationship, extendedFieldCount[SigUnboundRelationship]); err != nil {
		return err
	}
	if err := p.w.WriteInt(r.ID); err != nil {
		return err
	}
	if err := p.w.WriteString(r.Type); err != nil {
		return err
	}
	if err := p.packOrderedMap(r.Properties); err != nil {
		return err
	}
	return p.w.WriteString(r.ElementID)
}

// packPath re-derives unique nodes/relationships and the index sequence
// from the flat Path representation. A relationship index is written
// negated when that relationship's StartID is not the ID of the node that
// precedes it in the path (a reversed traversal), so a round trip through
// Unpack(Pack(path)) reconstructs equal endpoints.
func (p *Packer) packPath(path *boltvalues.Path) error {
	if err := p.w.WriteStructHeader(SigPath, fieldCount[SigPath]); err != nil {
		return err
	}

	nodeIndex := make(map[*boltvalues.Node]int)
	var uniqueNodes []*boltvalues.Node
	for _, n := range path.Nodes {
		if _, ok := nodeIndex[n]; !ok {
			nodeIndex[n] = len(uniqueNodes)
			uniqueNodes = append(uniqueNodes, n)
		}
	}
	relIndex := make(map[*boltvalues.Relationship]int)
	var uniqueRels []*boltvalues.Relationship
	for _, r := range path.Relationships {
		if _, ok := relIndex[r]; !ok {
			relIndex[r] = len(uniqueRels)
			uniqueRels = append(uniqueRels, r)
		}
	}

	if err := p.w.WriteListHeader(len(uniqueNodes)); err != nil {
		return err
	}
	for _, n := range uniqueNodes {
		if err := p.packNode(n); err != nil {
			return err
		}
	}

	if err := p.w.WriteListHeader(len(uniqueRels)); err != nil {
		return err
	}
	for _, r := range uniqueRels {
		if err := p.packUnboundRelationship(r); err != nil {
			return err
		}
	}

	if err := p.w.WriteListHeader(2 * len(path.Relationships)); err != nil {
		return err
	}
	for i, r := range path.Relationships {
		ri := int64(relIndex[r]) + 1
		next := path.Nodes[i+1]
		if r.StartID != path.Nodes[i].ID {
			ri = -ri
		}
		if err := p.w.WriteInt(ri); err != nil {
			return err
		}
		if err := p.w.WriteInt(int64(nodeIndex[next])); err != nil {
			return err
		}
	}
	return nil
}

func (p *Packer) packPoint(pt *boltvalues.Point) error {
	if pt.Is3D {
		if err := p.w.WriteStructHeader(SigPoint3D, fieldCount[SigPoint3D]); err != nil {
			return err
		}
		if err := p.w.WriteInt(int64(pt.SRID)); err != nil {
			return err
		}
		if err := p.w.WriteFloat(pt.X); err != nil {
			return err
		}
		if err := p.w.WriteFloat(pt.Y); err != nil {
			return err
		}
		return p.w.WriteFloat(pt.Z)
	}
	if err := p.w.WriteStructHeader(SigPoint2D, fieldCount[SigPoint2D]); err != nil {
		return err
	}
	if err := p.w.WriteInt(int64(pt.SRID)); err != nil {
		return err
	}
	if err := p.w.WriteFloat(pt.X); err != nil {
		return err
	}
	return p.w.WriteFloat(pt.Y)
}

func (p *Packer) packDate(d boltvalues.Date) error {
	if err := p.w.WriteStructHeader(SigDate, fieldCount[SigDate]); err != nil {
		return err
	}
	return p.w.WriteInt(d.EpochDay)
}

func (p *Packer) packTime(t boltvalues.Time) error {
	if err := p.w.WriteStructHeader(SigTime, fieldCount[SigTime]); err != nil {
		return err
	}
	if err := p.w.WriteInt(t.NanosOfDay); err != nil {
		return err
	}
	return p.w.WriteInt(int64(t.OffsetSecond))
}

func (p *Packer) packLocalTime(t boltvalues.LocalTime) error {
	if err := p.w.WriteStructHeader(SigLocalTime, fieldCount[SigLocalTime]); err != nil {
		return err
	}
	return p.w.WriteInt(t.NanosOfDay)
}

func (p *Packer) packLocalDateTime(t boltvalues.LocalDateTime) error {
	if err := p.w.WriteStructHeader(SigLocalDateTime, fieldCount[SigLocalDateTime]); err != nil {
		return err
	}
	if err := p.w.WriteInt(t.EpochSecond); err != nil {
		return err
	}
	return p.w.WriteInt(int64(t.Nano))
}

func (p *Packer) packDateTime(t boltvalues.DateTime) error {
	var sig byte
	switch {
	case t.Kind == boltvalues.ZoneOffset && t.Baseline == boltvalues.BaselineUTC:
		sig = SigDateTimeUTCOffset
	case t.Kind == boltvalues.ZoneOffset && t.Baseline == boltvalues.BaselineLegacy:
		sig = SigDateTimeLegacyOffset
	case t.Kind == boltvalues.ZoneNamed && t.Baseline == boltvalues.BaselineUTC:
		sig = SigDateTimeUTCZoneID
	default:
		sig = SigDateTimeLegacyZoneID
	}
	if isUTCSignature(sig) && !p.mode.UTCPatchEnabled {
		return violation("cannot pack %q: UTC date-time mode disabled", string(sig))
	}
	if isLegacySignature(sig) && p.mode.UTCPatchEnabled {
		return violation("cannot pack %q: UTC date-time mode enabled", string(sig))
	}
	if err := p.w.WriteStructHeader(sig, fieldCount[sig]); err != nil {
		return err
	}
	if err := p.w.WriteInt(t.EpochSecond); err != nil {
		return err
	}
	if err := p.w.WriteInt(int64(t.Nano)); err != nil {
		return err
	}
	if t.Kind == boltvalues.ZoneOffset {
		return p.w.WriteInt(int64(t.OffsetSecond))
	}
	return p.w.WriteString(t.ZoneID)
}

func (p *Packer) packDuration(d boltvalues.Duration) error {
	if err := p.w.WriteStructHeader(SigDuration, fieldCount[SigDuration]); err != nil {
		return err
	}
	if err := p.w.WriteInt(d.Months); err != nil {
		return err
	}
	if err := p.w.WriteInt(d.Days); err != nil {
		return err
	}
	if err := p.w.WriteInt(d.Seconds); err != nil {
		return err
	}
	return p.w.WriteInt(int64(d.Nanos))
}
