//go:build windows

package main

import "github.com/mkarppi/rmmc/pkg/software"

func systemRegistryReader() (software.Reader, error) {
	return &software.RegistryReader{}, nil
}
