package boltcodec

import "time"

// isRecognisedZone reports whether the IANA zone id can be resolved by the
// local tzdata; an unrecognised zone yields an Unsupported value instead.
func isRecognisedZone(zoneID string) bool {
	if zoneID == "" {
		return false
	}
	_, err := time.LoadLocation(zoneID)
	return err == nil
}
