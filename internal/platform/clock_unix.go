//go:build linux || darwin || freebsd || netbsd || openbsd

package platform

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// NanoTime reads CLOCK_MONOTONIC. Values are only meaningful relative to
// each other within one boot of the machine.
func NanoTime() (int64, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return 0, fmt.Errorf("clock_gettime(CLOCK_MONOTONIC) failed: %w", err)
	}
	return int64(ts.Sec)*NanosPerSecond + int64(ts.Nsec), nil
}
