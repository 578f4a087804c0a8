package conv

import (
	"fmt"
	"math"
)

// SlotID converts a slot table length into the next slot id. Slot ids live
// in roaring bitmaps, which are limited to uint32.
func SlotID(n int) (uint32, error) {
	if n < 0 {
		return 0, fmt.Errorf("slot id out of range: %d is negative", n)
	}
	if uint64(n) > math.MaxUint32 {
		return 0, fmt.Errorf("slot id out of range: %d exceeds uint32", n)
	}
	return uint32(n), nil
}

// Cardinality converts a bitmap cardinality into an int, saturating at
// math.MaxInt.
func Cardinality(c uint64) int {
	if c > uint64(math.MaxInt) {
		return math.MaxInt
	}
	return int(c)
}
