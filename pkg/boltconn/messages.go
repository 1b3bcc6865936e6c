// Package boltconn owns a framed Bolt transport and the per-connection
// request/response state machine.
package boltconn

// Message signatures. These are a distinct signature space from
// pkg/boltvalues/boltcodec's value-structure table: they tag whole request
// and response envelopes, not values nested inside them.
const (
	msgHello    byte = 0x01
	msgGoodbye  byte = 0x02
	msgReset    byte = 0x0F
	msgRun      byte = 0x10
	msgBegin    byte = 0x11
	msgCommit   byte = 0x12
	msgRollback byte = 0x13
	msgDiscard  byte = 0x2F
	msgPull     byte = 0x3F
	msgSuccess  byte = 0x70
	msgIgnored  byte = 0x7E
	msgFailure  byte = 0x7F
	msgRecord   byte = 0x71
)

func messageName(sig byte) string {
	switch sig {
	case msgHello:
		return "HELLO"
	case msgGoodbye:
		return "GOODBYE"
	case msgReset:
		return "RESET"
	case msgRun:
		return "RUN"
	case msgBegin:
		return "BEGIN"
	case msgCommit:
		return "COMMIT"
	case msgRollback:
		return "ROLLBACK"
	case msgDiscard:
		return "DISCARD"
	case msgPull:
		return "PULL"
	case msgSuccess:
		return "SUCCESS"
	case msgIgnored:
		return "IGNORED"
	case msgFailure:
		return "FAILURE"
	case msgRecord:
		return "RECORD"
	default:
		return "UNKNOWN"
	}
}
