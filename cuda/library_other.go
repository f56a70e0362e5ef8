//go:build !linux

package cuda

import "github.com/cockroachdb/errors"

func openLibrary() (*library, error) {
	return nil, errors.New("the cuda driver is only loaded on linux")
}
