package filesystem

import (
	"os"
	"syscall"
	"time"
)

// CreationTime returns the birth time from FileInfo (macOS)
func CreationTime(_ string, info os.FileInfo) (time.Time, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(stat.Birthtimespec.Sec, stat.Birthtimespec.Nsec), true
}
