// Package sessionid names sessions with short, time-sortable IDs so log lines
// from one session can be picked out of a shared log file.
package sessionid

import (
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// Length is the number of characters in an ID
const Length = 26

// Crockford's base32, lower case
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

var encoding = base32.NewEncoding(alphabet).WithPadding(base32.NoPadding)

// New returns an ID made of 48 bits of milliseconds from now followed by 80
// random bits from rng. A nil rng uses the global source.
func New(now time.Time, rng *rand.Rand) string {
	var raw [16]byte

	ms := uint64(now.UnixMilli())
	binary.BigEndian.PutUint16(raw[0:2], uint16(ms>>32))
	binary.BigEndian.PutUint32(raw[2:6], uint32(ms))

	var hi, lo uint64
	if rng != nil {
		hi, lo = rng.Uint64(), rng.Uint64()
	} else {
		hi, lo = rand.Uint64(), rand.Uint64()
	}
	binary.BigEndian.PutUint16(raw[6:8], uint16(hi))
	binary.BigEndian.PutUint64(raw[8:16], lo)

	return encoding.EncodeToString(raw[:])
}

// Validate checks id has the right length and alphabet
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("session ID must be exactly %d characters, got %d", Length, len(id))
	}
	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}
