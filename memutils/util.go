package memutils

import (
	cerrors "github.com/cockroachdb/errors"
)

type Number interface {
	~int | ~uint | ~uint32 | ~uint64
}

func CheckPow2[T Number](number T, name string) error {
	if number == 0 || number&(number-1) != 0 {
		return cerrors.Wrapf(PowerOfTwoError, "%s is %d", name, number)
	}
	return nil
}

// CheckRange verifies min <= value <= max
func CheckRange[T Number](value, min, max T, name string) error {
	if value < min || value > max {
		return cerrors.Wrapf(RangeError, "%s is %d, must be within [%d, %d]", name, value, min, max)
	}
	return nil
}

func AlignUp(value int, alignment uint) int {
	return (value + int(alignment) - 1) & int(^(alignment - 1))
}

// ImageByteSize is the size of a tightly packed image
func ImageByteSize(width, height, bytesPerPixel int) int {
	return width * height * bytesPerPixel
}
