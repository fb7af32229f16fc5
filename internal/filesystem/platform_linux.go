package filesystem

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// CreationTime returns the birth time of path when the filesystem records it (Linux statx)
func CreationTime(path string, info os.FileInfo) (time.Time, bool) {
	// Only OS-backed files can be queried with statx
	if _, ok := info.Sys().(*syscall.Stat_t); !ok {
		return time.Time{}, false
	}

	var stx unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, unix.AT_SYMLINK_NOFOLLOW, unix.STATX_BTIME, &stx); err != nil {
		return time.Time{}, false
	}
	if stx.Mask&unix.STATX_BTIME == 0 {
		return time.Time{}, false
	}
	return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec)), true
}
