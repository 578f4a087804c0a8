//go:build amd64 || arm64

package conv

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotID(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		for _, n := range []int{0, 1, 4096, math.MaxUint32} {
			got, err := SlotID(n)
			require.NoError(t, err, strconv.Itoa(n))
			assert.Equal(t, uint32(n), got)
		}
	})

	t.Run("negative", func(t *testing.T) {
		_, err := SlotID(-1)
		assert.Error(t, err)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := SlotID(math.MaxUint32 + 1)
		assert.Error(t, err)
	})
}

func TestCardinality(t *testing.T) {
	assert.Equal(t, 0, Cardinality(0))
	assert.Equal(t, 42, Cardinality(42))
	assert.Equal(t, math.MaxInt, Cardinality(math.MaxUint64))
}
