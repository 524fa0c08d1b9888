//go:build !windows

package main

import (
	"errors"

	"github.com/mkarppi/rmmc/pkg/software"
)

func systemRegistryReader() (software.Reader, error) {
	return nil, errors.New("live registry detection requires Windows; use --fixture")
}
