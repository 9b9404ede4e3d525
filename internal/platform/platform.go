// Package platform provides the operating-system services the build tool
// relies on outside the descriptor model: a monotonic nanosecond clock and
// the platform's shared-library naming convention.
package platform

import (
	"runtime"
	"time"
)

// NanosPerSecond converts clock seconds to nanoseconds
const NanosPerSecond = int64(time.Second)

// MapLibraryName maps a bare library name to the file name the current
// platform uses for shared libraries.
func MapLibraryName(name string) string {
	return MapLibraryNameFor(runtime.GOOS, name)
}

// MapLibraryNameFor maps a bare library name using the convention of goos.
func MapLibraryNameFor(goos, name string) string {
	switch goos {
	case "windows":
		return name + ".dll"
	case "darwin", "ios":
		return "lib" + name + ".dylib"
	case "aix":
		return "lib" + name + ".a"
	default:
		return "lib" + name + ".so"
	}
}
