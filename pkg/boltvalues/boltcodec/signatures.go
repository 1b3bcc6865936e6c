// Package boltcodec maps between PackStream structures and the boltvalues
// value model according to Bolt's structure signature table.
package boltcodec

// Structure signatures.
const (
	SigNode                 byte = 'N'
	SigRelationship         byte = 'R'
	SigUnboundRelationship  byte = 'r'
	SigPath                 byte = 'P'
	SigDate                 byte = 'D'
	SigTime                 byte = 'T'
	SigLocalTime            byte = 't'
	SigLocalDateTime        byte = 'd'
	SigDateTimeLegacyOffset byte = 'F'
	SigDateTimeLegacyZoneID byte = 'f'
	SigDateTimeUTCOffset    byte = 'I'
	SigDateTimeUTCZoneID    byte = 'i'
	SigDuration             byte = 'E'
	SigPoint2D              byte = 'X'
	SigPoint3D              byte = 'Y'
)

// fieldCount is the fixed field count a signature is expected to carry. A
// field count of -1 means the field count is structurally variable (Node's
// labels/properties are themselves lists/maps, but the *count* of top-level
// struct fields is still fixed; -1 is unused here and kept only as a
// documented placeholder for clarity).
var fieldCount = map[byte]int{
	SigNode:                 3, // id, labels, props (legacy; 4 with elementId, handled specially)
	SigRelationship:         5, // id, startId, endId, type, props (legacy; 8 with elementIds)
	SigUnboundRelationship:  3, // id, type, props (legacy; 4 with elementId)
	SigPath:                 3, // nodes, rels, sequence
	SigDate:                 1,
	SigTime:                 2,
	SigLocalTime:            1,
	SigLocalDateTime:        2,
	SigDateTimeLegacyOffset: 3,
	SigDateTimeLegacyZoneID: 3,
	SigDateTimeUTCOffset:    3,
	SigDateTimeUTCZoneID:    3,
	SigDuration:             4,
	SigPoint2D:              3,
	SigPoint3D:              4,
}

// extendedFieldCount is the field count used when the server includes the
// newer elementId string fields alongside the legacy numeric ids (Node gains
// one field, Relationship gains three (elementId, startElementId,
// endElementId), UnboundRelationship gains one).
var extendedFieldCount = map[byte]int{
	SigNode:                4,
	SigRelationship:        8,
	SigUnboundRelationship: 4,
}

// acceptableFieldCounts returns the set of field counts this signature may
// legally carry, given whether extended (elementId-bearing) forms are in
// play. Any other count is a ProtocolViolation.
func acceptableFieldCounts(sig byte) []int {
	base, hasBase := fieldCount[sig]
	ext, hasExt := extendedFieldCount[sig]
	var out []int
	if hasBase {
		out = append(out, base)
	}
	if hasExt {
		out = append(out, ext)
	}
	return out
}

// isUTCSignature reports whether sig is only valid when UTC date-time mode
// is enabled.
func isUTCSignature(sig byte) bool {
	return sig == SigDateTimeUTCOffset || sig == SigDateTimeUTCZoneID
}

// isLegacySignature reports whether sig is only valid when UTC date-time
// mode is disabled.
func isLegacySignature(sig byte) bool {
	return sig == SigDateTimeLegacyOffset || sig == SigDateTimeLegacyZoneID
}
