//go:build !linux && !darwin && !windows

package config

import "errors"

func freeDiskSpace(string) (uint64, error) {
	return 0, errors.New("free disk space probe not supported on this platform")
}
