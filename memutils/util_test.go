package memutils

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestCheckPow2(t *testing.T) {
	require.NoError(t, CheckPow2(uint(1), "one"))
	require.NoError(t, CheckPow2(4096, "page"))

	err := CheckPow2(uint32(96), "alignment")
	require.Error(t, err)
	require.True(t, errors.Is(err, PowerOfTwoError))
	require.Contains(t, err.Error(), "alignment is 96")

	require.Error(t, CheckPow2(0, "zero"))
}

func TestCheckRange(t *testing.T) {
	require.NoError(t, CheckRange(3, 1, 8, "count"))
	err := CheckRange(9, 1, 8, "count")
	require.True(t, errors.Is(err, RangeError))
}

func TestAlign(t *testing.T) {
	require.Equal(t, 256, AlignUp(200, 256))
	require.Equal(t, 512, AlignUp(512, 256))
	require.Equal(t, 64*64*4, ImageByteSize(64, 64, 4))
}

func TestDetailedStatistics(t *testing.T) {
	var stats DetailedStatistics
	stats.Clear()
	stats.AddAllocation(100)
	stats.AddAllocation(300)
	stats.AddImport(100)

	var other DetailedStatistics
	other.Clear()
	other.AddAllocation(50)

	stats.AddDetailedStatistics(&other)
	require.Equal(t, 3, stats.MemoryCount)
	require.Equal(t, 450, stats.MemoryBytes)
	require.Equal(t, 1, stats.ImportCount)
	require.Equal(t, 50, stats.AllocationSizeMin)
	require.Equal(t, 300, stats.AllocationSizeMax)
}
