package filesystem

import (
	"os"
	"syscall"
	"time"
)

// CreationTime returns the creation time from FileInfo (Windows)
func CreationTime(_ string, info os.FileInfo) (time.Time, bool) {
	data, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(0, data.CreationTime.Nanoseconds()), true
}
