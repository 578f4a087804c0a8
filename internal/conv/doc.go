// Package conv converts between the uint32/uint64 space of roaring bitmaps
// and Go ints.
package conv
