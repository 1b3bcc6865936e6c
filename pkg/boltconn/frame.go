package boltconn

import (
	"encoding/binary"
	"fmt"
	"io"
)

// maxChunkSize is the largest payload a single Bolt chunk may carry; its
// u16 length prefix caps it at 0xFFFF.
const maxChunkSize = 0xFFFF

// writeMessage splits body into maxChunkSize chunks, each prefixed by a
// big-endian u16 length, and terminates the message with a zero-length
// chunk.
func writeMessage(w io.Writer, body []byte) error {
	for len(body) > 0 {
		n := len(body)
		if n > maxChunkSize {
			n = maxChunkSize
		}
		if err := writeChunk(w, body[:n]); err != nil {
			return err
		}
		body = body[n:]
	}
	var term [2]byte
	_, err := w.Write(term[:])
	return err
}

func writeChunk(w io.Writer, chunk []byte) error {
	var hdr [2]byte
	binary.BigEndian.PutUint16(hdr[:], uint16(len(chunk)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.Write(chunk)
	return err
}

// readMessage reassembles one full message from its chunks.
func readMessage(r io.Reader) ([]byte, error) {
	var body []byte
	for {
		var hdr [2]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, fmt.Errorf("boltconn: reading chunk header: %w", err)
		}
		n := binary.BigEndian.Uint16(hdr[:])
		if n == 0 {
			if body == nil {
				body = []byte{}
			}
			return body, nil
		}
		chunk := make([]byte, n)
		if _, err := io.ReadFull(r, chunk); err != nil {
			return nil, fmt.Errorf("boltconn: reading chunk body: %w", err)
		}
		body = append(body, chunk...)
	}
}
