package boltconn

import (
	"encoding/binary"
	"fmt"
	"io"
)

var boltMagic = [4]byte{0x60, 0x60, 0xB0, 0x17}

// version packs a (major, minor) pair the way Bolt's handshake does: a
// 32-bit big-endian word with the major byte low, minor byte next (range
// bytes used for version-range negotiation are left zero; this driver
// proposes exact versions only).
func version(major, minor byte) uint32 {
	return uint32(minor)<<8 | uint32(major)
}

// negotiatedVersion splits a server-echoed version word back into (major,
// minor).
func negotiatedVersion(v uint32) (major, minor byte) {
	return byte(v & 0xFF), byte((v >> 8) & 0xFF)
}

// defaultVersionProposals lists the four candidate versions offered during
// handshake, newest first. 5.x versions enable the UTC date-time encodings.
func defaultVersionProposals() [4]uint32 {
	return [4]uint32{
		version(5, 4),
		version(5, 1),
		version(5, 0),
		version(4, 4),
	}
}

// handshake sends the magic preamble and four version proposals, then
// reads back the server's chosen version (or rejects the connection if the
// server echoes 0.0).
func handshake(rw io.ReadWriter, proposals [4]uint32) (major, minor byte, err error) {
	buf := make([]byte, 4+4*4)
	copy(buf[:4], boltMagic[:])
	for i, p := range proposals {
		binary.BigEndian.PutUint32(buf[4+i*4:], p)
	}
	if _, err := rw.Write(buf); err != nil {
		return 0, 0, fmt.Errorf("boltconn: sending handshake: %w", err)
	}
	var resp [4]byte
	if _, err := io.ReadFull(rw, resp[:]); err != nil {
		return 0, 0, fmt.Errorf("boltconn: reading handshake response: %w", err)
	}
	chosen := binary.BigEndian.Uint32(resp[:])
	if chosen == 0 {
		return 0, 0, fmt.Errorf("boltconn: server rejected all proposed versions")
	}
	major, minor = negotiatedVersion(chosen)
	return major, minor, nil
}

// utcPatchEnabled reports whether the negotiated version enables the UTC
// date-time encodings.
func utcPatchEnabled(major, _ byte) bool {
	return major >= 5
}
