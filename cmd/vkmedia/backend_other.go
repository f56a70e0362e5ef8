//go:build !linux

package main

import "github.com/cockroachdb/errors"

func openSimBackend() (backend, error) {
	return backend{}, errors.New("the sim backend needs memfd and eventfd, which are linux only")
}
