package memutils

import "github.com/cockroachdb/errors"

// PowerOfTwoError is the error returned from CheckPow2 or other methods if the number being tested is not a power of two
var PowerOfTwoError error = errors.New("number must be a power of two")

// RangeError is returned from CheckRange when a value falls outside its permitted bounds
var RangeError error = errors.New("value out of range")
