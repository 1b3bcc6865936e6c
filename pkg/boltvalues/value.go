// Package boltvalues implements the Bolt typed value model: a tagged
// variant covering null, boolean, integer, float, bytes, string, list, map,
// graph entities, and temporal/spatial types.
package boltvalues

import "fmt"

// Kind discriminates the Value variants.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindInteger
	KindFloat
	KindBytes
	KindString
	KindList
	KindMap
	KindNode
	KindRelationship
	KindPath
	KindPoint
	KindDate
	KindTime
	KindLocalTime
	KindLocalDateTime
	KindDateTime
	KindDuration
	KindUnsupported
)

func (k Kind) String() string {
	names := [...]string{
		"Null", "Boolean", "Integer", "Float", "Bytes", "String", "List",
		"Map", "Node", "Relationship", "Path", "Point", "Date", "Time",
		"LocalTime", "LocalDateTime", "DateTime", "Duration", "Unsupported",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "Unknown"
	}
	return names[k]
}

// Value is a tagged union over every Bolt wire type. Exactly one of the
// typed fields is meaningful for a given Kind; Value is never mutated after
// construction except for the one-shot Relationship endpoint rebinding
// performed internally while a Path is being assembled (see Relationship's
// rebinding in graph.go and unpackPath in boltcodec/unpack.go).
type Value struct {
	kind Kind

	boolean bool
	integer int64
	float   float64
	bytes   []byte
	str     string
	list    []Value
	mapv    *OrderedMap

	node         *Node
	relationship *Relationship
	path         *Path
	point        *Point
	date         *Date
	timeOfDay    *Time
	localTime    *LocalTime
	localDT      *LocalDateTime
	dateTime     *DateTime
	duration     *Duration
	unsupported  *Unsupported
}

// Kind reports the value's logical type.
func (v Value) Kind() Kind { return v.kind }

// Null is the sole Null value.
var Null = Value{kind: KindNull}

// NewBoolean constructs a Boolean value.
func NewBoolean(b bool) Value { return Value{kind: KindBoolean, boolean: b} }

// NewInteger constructs an Integer value.
func NewInteger(i int64) Value { return Value{kind: KindInteger, integer: i} }

// NewFloat constructs a Float value.
func NewFloat(f float64) Value { return Value{kind: KindFloat, float: f} }

// NewBytes constructs a Bytes value.
func NewBytes(b []byte) Value { return Value{kind: KindBytes, bytes: b} }

// NewString constructs a String value.
func NewString(s string) Value { return Value{kind: KindString, str: s} }

// NewList constructs a List value.
func NewList(items []Value) Value { return Value{kind: KindList, list: items} }

// NewMap constructs a Map value from an OrderedMap.
func NewMap(m *OrderedMap) Value { return Value{kind: KindMap, mapv: m} }

// NewNode constructs a Node value.
func NewNode(n *Node) Value { return Value{kind: KindNode, node: n} }

// NewRelationship constructs a Relationship value.
func NewRelationship(r *Relationship) Value { return Value{kind: KindRelationship, relationship: r} }

// NewPath constructs a Path value.
func NewPath(p *Path) Value { return Value{kind: KindPath, path: p} }

// NewPoint constructs a Point value.
func NewPoint(p *Point) Value { return Value{kind: KindPoint, point: p} }

// NewDate constructs a Date value.
func NewDate(d Date) Value { return Value{kind: KindDate, date: &d} }

// NewTime constructs a Time value.
func NewTime(t Time) Value { return Value{kind: KindTime, timeOfDay: &t} }

// NewLocalTime constructs a LocalTime value.
func NewLocalTime(t LocalTime) Value { return Value{kind: KindLocalTime, localTime: &t} }

// NewLocalDateTime constructs a LocalDateTime value.
func NewLocalDateTime(t LocalDateTime) Value { return Value{kind: KindLocalDateTime, localDT: &t} }

// NewDateTime constructs a DateTime value.
func NewDateTime(t DateTime) Value { return Value{kind: KindDateTime, dateTime: &t} }

// NewDuration constructs a Duration value.
func NewDuration(d Duration) Value { return Value{kind: KindDuration, duration: &d} }

// NewUnsupported constructs a sentinel Unsupported value, produced when a
// server-sent temporal value references an unknown zone.
func NewUnsupported(kind, reason string) Value {
	return Value{kind: KindUnsupported, unsupported: &Unsupported{SourceKind: kind, Reason: reason}}
}

// Unsupported carries the original signature kind and the reason decoding
// could not produce a concrete value.
type Unsupported struct {
	SourceKind string
	Reason     string
}

func (u *Unsupported) Error() string {
	return fmt.Sprintf("unsupported %s: %s", u.SourceKind, u.Reason)
}

// AsBoolean returns the underlying bool; only meaningful when Kind() == KindBoolean.
func (v Value) AsBoolean() bool { return v.boolean }

// AsInteger returns the underlying int64; only meaningful when Kind() == KindInteger.
func (v Value) AsInteger() int64 { return v.integer }

// AsFloat returns the underlying float64; only meaningful when Kind() == KindFloat.
func (v Value) AsFloat() float64 { return v.float }

// AsBytes returns the underlying byte slice; only meaningful when Kind() == KindBytes.
func (v Value) AsBytes() []byte { return v.bytes }

// AsString returns the underlying string; only meaningful when Kind() == KindString.
func (v Value) AsString() string { return v.str }

// AsList returns the underlying slice; only meaningful when Kind() == KindList.
func (v Value) AsList() []Value { return v.list }

// AsMap returns the underlying OrderedMap; only meaningful when Kind() == KindMap.
func (v Value) AsMap() *OrderedMap { return v.mapv }

// AsNode returns the underlying Node; only meaningful when Kind() == KindNode.
func (v Value) AsNode() *Node { return v.node }

// AsRelationship returns the underlying Relationship; only meaningful when Kind() == KindRelationship.
func (v Value) AsRelationship() *Relationship { return v.relationship }

// AsPath returns the underlying Path; only meaningful when Kind() == KindPath.
func (v Value) AsPath() *Path { return v.path }

// AsPoint returns the underlying Point; only meaningful when Kind() == KindPoint.
func (v Value) AsPoint() *Point { return v.point }

// AsDate returns the underlying Date; only meaningful when Kind() == KindDate.
func (v Value) AsDate() Date { return *v.date }

// AsTime returns the underlying Time; only meaningful when Kind() == KindTime.
func (v Value) AsTime() Time { return *v.timeOfDay }

// AsLocalTime returns the underlying LocalTime; only meaningful when Kind() == KindLocalTime.
func (v Value) AsLocalTime() LocalTime { return *v.localTime }

// AsLocalDateTime returns the underlying LocalDateTime; only meaningful when Kind() == KindLocalDateTime.
func (v Value) AsLocalDateTime() LocalDateTime { return *v.localDT }

// AsDateTime returns the underlying DateTime; only meaningful when Kind() == KindDateTime.
func (v Value) AsDateTime() DateTime { return *v.dateTime }

// AsDuration returns the underlying Duration; only meaningful when Kind() == KindDuration.
func (v Value) AsDuration() Duration { return *v.duration }

// AsUnsupported returns the sentinel detail; only meaningful when Kind() == KindUnsupported.
func (v Value) AsUnsupported() *Unsupported { return v.unsupported }

// IsNull reports whether v is the Null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Equal reports deep equality, used by the codec round-trip property test.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBoolean:
		return v.boolean == o.boolean
	case KindInteger:
		return v.integer == o.integer
	case KindFloat:
		return v.float == o.float || (v.float != v.float && o.float != o.float) // NaN-safe for fuzz
	case KindBytes:
		return string(v.bytes) == string(o.bytes)
	case KindString:
		return v.str == o.str
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return v.mapv.Equal(o.mapv)
	case KindPoint:
		return *v.point == *o.point
	case KindDate:
		return *v.date == *o.date
	case KindTime:
		return *v.timeOfDay == *o.timeOfDay
	case KindLocalTime:
		return *v.localTime == *o.localTime
	case KindLocalDateTime:
		return *v.localDT == *o.localDT
	case KindDuration:
		return *v.duration == *o.duration
	case KindDateTime:
		return v.dateTime.Equal(*o.dateTime)
	case KindNode:
		return v.node.Equal(o.node)
	case KindRelationship:
		return v.relationship.Equal(o.relationship)
	case KindPath:
		return v.path.Equal(o.path)
	case KindUnsupported:
		return v.unsupported.SourceKind == o.unsupported.SourceKind && v.unsupported.Reason == o.unsupported.Reason
	default:
		return false
	}
}
