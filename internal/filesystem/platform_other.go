//go:build !linux && !darwin && !windows

package filesystem

import (
	"os"
	"time"
)

// CreationTime is not available on this platform
func CreationTime(_ string, _ os.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}
