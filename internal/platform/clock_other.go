//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package platform

import "time"

var processStart = time.Now()

// NanoTime returns Go's monotonic clock reading relative to process start.
func NanoTime() (int64, error) {
	return int64(time.Since(processStart)), nil
}
