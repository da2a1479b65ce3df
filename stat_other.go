//go:build !linux

package lumen

import (
	"os"
	"time"
)

// statExtra has no portable way to read device/inode/uid/gid outside
// Linux's syscall.Stat_t layout; platforms landing here get zeros and
// fall back to mtime for ctime, which only costs the mtime-shortcut
// optimization in status, never correctness.
func statExtra(info os.FileInfo) (dev, ino, uid, gid uint32, ctime time.Time) {
	return 0, 0, 0, 0, info.ModTime()
}
