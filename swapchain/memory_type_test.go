package swapchain

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/core1_0"
)

var testMemoryTypes = []core1_0.MemoryType{
	{
		PropertyFlags: 0,
		HeapIndex:     1,
	},
	{
		PropertyFlags: core1_0.MemoryPropertyDeviceLocal,
		HeapIndex:     0,
	},
	{
		PropertyFlags: core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent,
		HeapIndex:     1,
	},
	{
		PropertyFlags: core1_0.MemoryPropertyDeviceLocal | core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent,
		HeapIndex:     2,
	},
}

var resolveMemoryTypeTestCases = map[string]struct {
	MemoryTypes    []core1_0.MemoryType
	MemoryTypeBits uint32
	RequiredFlags  core1_0.MemoryPropertyFlags

	ExpectedIndex int
	ExpectedError error
}{
	"TestLowestMatchingBitWins": {
		MemoryTypes: []core1_0.MemoryType{
			{PropertyFlags: core1_0.MemoryPropertyDeviceLocal, HeapIndex: 0},
			{PropertyFlags: core1_0.MemoryPropertyDeviceLocal, HeapIndex: 0},
			{PropertyFlags: core1_0.MemoryPropertyHostVisible, HeapIndex: 1},
		},
		MemoryTypeBits: 0b0110,
		RequiredFlags:  core1_0.MemoryPropertyDeviceLocal,
		ExpectedIndex:  1,
	},
	"TestMatchingFlagsBeatLowerBit": {
		MemoryTypes: []core1_0.MemoryType{
			{PropertyFlags: core1_0.MemoryPropertyDeviceLocal, HeapIndex: 0},
			{PropertyFlags: core1_0.MemoryPropertyHostVisible, HeapIndex: 1},
			{PropertyFlags: core1_0.MemoryPropertyDeviceLocal, HeapIndex: 0},
		},
		MemoryTypeBits: 0b0110,
		RequiredFlags:  core1_0.MemoryPropertyDeviceLocal,
		ExpectedIndex:  2,
	},
	"TestLowestAllowedIndexWithoutFlags": {
		MemoryTypes:    []core1_0.MemoryType{{}, {}, {}},
		MemoryTypeBits: 0b0110,
		ExpectedIndex:  1,
	},
	"TestDeviceLocal": {
		MemoryTypes:    testMemoryTypes,
		MemoryTypeBits: 0b1111,
		RequiredFlags:  core1_0.MemoryPropertyDeviceLocal,
		ExpectedIndex:  1,
	},
	"TestDeviceLocalBannedByBits": {
		MemoryTypes:    testMemoryTypes,
		MemoryTypeBits: 0b1101,
		RequiredFlags:  core1_0.MemoryPropertyDeviceLocal,
		ExpectedIndex:  3,
	},
	"TestHostVisibleDeviceLocal": {
		MemoryTypes:    testMemoryTypes,
		MemoryTypeBits: 0b1111,
		RequiredFlags:  core1_0.MemoryPropertyDeviceLocal | core1_0.MemoryPropertyHostVisible,
		ExpectedIndex:  3,
	},
	"TestNoAllowedType": {
		MemoryTypes:    testMemoryTypes,
		MemoryTypeBits: 0,
		ExpectedIndex:  -1,
		ExpectedError:  ErrNoCompatibleMemoryType,
	},
	"TestBitsBeyondTypeCount": {
		MemoryTypes:    testMemoryTypes,
		MemoryTypeBits: 0b110000,
		ExpectedIndex:  -1,
		ExpectedError:  ErrNoCompatibleMemoryType,
	},
	"TestMissingFlags": {
		MemoryTypes:    testMemoryTypes,
		MemoryTypeBits: 0b0101,
		RequiredFlags:  core1_0.MemoryPropertyDeviceLocal,
		ExpectedIndex:  -1,
		ExpectedError:  ErrNoCompatibleMemoryType,
	},
}

func TestResolveMemoryType(t *testing.T) {
	for testName, testCase := range resolveMemoryTypeTestCases {
		t.Run(testName, func(t *testing.T) {
			index, err := ResolveMemoryType(testCase.MemoryTypes, testCase.MemoryTypeBits, testCase.RequiredFlags)
			require.Equal(t, testCase.ExpectedIndex, index)

			if testCase.ExpectedError == nil {
				require.NoError(t, err)
				return
			}

			require.True(t, errors.Is(err, testCase.ExpectedError))
			require.True(t, errors.Is(err, ErrResourceExhaustion))
		})
	}
}
