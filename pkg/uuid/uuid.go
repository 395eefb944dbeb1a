// Package uuid provides UUID v7 generation.
// UUID v7 is sortable by timestamp (better for database indexes than v4).
package uuid

import (
	"fmt"
	"math/rand"
	"time"
)

// UUID represents a UUID v7 identifier.
type UUID [16]byte

// NewV7 generates a new UUID v7.
// UUID v7 format (RFC 9562):
// - 48 bits: UNIX timestamp in milliseconds
// - 4 bits: version, then 12 bits random "rand_a"
// - 2 bits: variant, then 62 bits random "rand_b"
func NewV7() UUID {
	now := time.Now().UnixMilli()

	var uuid UUID

	// Timestamp (48 bits, ms precision) — bytes 0-5
	uuid[0] = byte(now >> 40)
	uuid[1] = byte(now >> 32)
	uuid[2] = byte(now >> 24)
	uuid[3] = byte(now >> 16)
	uuid[4] = byte(now >> 8)
	uuid[5] = byte(now)

	// Random part — bytes 6-15
	// Version 0111 (4 bits) + rand_a (12 bits) in bytes 6-7
	randomVal := rand.Uint64()
	uuid[6] = 0x70 | byte((randomVal>>56)&0x0f)
	uuid[7] = byte(randomVal >> 48)

	// Variant 10xxxxxx (RFC 9562) + rand_b from byte 8 on
	uuid[8] = 0x80 | byte((randomVal>>40)&0x3f)
	uuid[9] = byte(randomVal >> 32)
	uuid[10] = byte(randomVal >> 24)
	uuid[11] = byte(randomVal >> 16)
	uuid[12] = byte(randomVal >> 8)
	uuid[13] = byte(randomVal)

	// Final 2 random bytes
	uuid[14] = byte(rand.Intn(256))
	uuid[15] = byte(rand.Intn(256))

	return uuid
}

// String returns the UUID in standard form: xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx
func (u UUID) String() string {
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		u[0:4],
		u[4:6],
		u[6:8],
		u[8:10],
		u[10:16],
	)
}

// Short returns 8 upper-case hex characters taken from the random tail
// of the UUID. Used for human-facing identifiers such as order numbers;
// the leading bytes are a millisecond timestamp and would repeat across
// identifiers generated close together.
func (u UUID) Short() string {
	return fmt.Sprintf("%08X", u[12:16])
}
