// internal/step/step.go
package step

import (
	"fmt"
	"strings"
)

// ID identifies a step. The zero value is None and never names a real step.
type ID byte

const (
	// None marks the absence of a step, e.g. on an idle worker.
	None ID = 0
	// First and Last bound the alphabet of valid identifiers.
	First ID = 'A'
	Last  ID = 'Z'
	// AlphabetSize is the number of valid identifiers.
	AlphabetSize = int(Last-First) + 1
)

// Parse converts a one-letter string into an ID.
func Parse(raw string) (ID, error) {
	if len(raw) != 1 {
		return None, fmt.Errorf("step identifier must be a single letter, got %q", raw)
	}
	id := ID(raw[0])
	if !id.Valid() {
		return None, fmt.Errorf("step identifier must be an uppercase letter A-Z, got %q", raw)
	}
	return id, nil
}

// Valid reports whether id is one of A-Z.
func (id ID) Valid() bool {
	return id >= First && id <= Last
}

// Position returns the 1-indexed alphabet position (A=1 ... Z=26).
func (id ID) Position() int {
	return int(id-First) + 1
}

// Duration returns the time the step occupies a worker: its alphabet
// position plus baseOffset.
func (id ID) Duration(baseOffset int) int {
	return id.Position() + baseOffset
}

func (id ID) String() string {
	if id == None {
		return ""
	}
	return string(rune(id))
}

// Alphabet returns every valid ID in ascending order.
func Alphabet() []ID {
	ids := make([]ID, 0, AlphabetSize)
	for id := First; id <= Last; id++ {
		ids = append(ids, id)
	}
	return ids
}

// Join concatenates ids into a single string, e.g. "CABDFE".
func Join(ids []ID) string {
	var b strings.Builder
	b.Grow(len(ids))
	for _, id := range ids {
		b.WriteByte(byte(id))
	}
	return b.String()
}

// DurationFunc maps a step to the time it occupies a worker.
type DurationFunc func(ID) int

// OffsetDuration returns a DurationFunc of position plus baseOffset.
func OffsetDuration(baseOffset int) DurationFunc {
	return func(id ID) int {
		return id.Duration(baseOffset)
	}
}

// ZeroDuration completes every step instantly.
func ZeroDuration(ID) int {
	return 0
}
