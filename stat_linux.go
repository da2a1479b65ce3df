//go:build linux

package lumen

import (
	"os"
	"syscall"
	"time"
)

// statExtra pulls the device/inode/uid/gid/ctime fields the index
// records but os.FileInfo doesn't expose portably.
func statExtra(info os.FileInfo) (dev, ino, uid, gid uint32, ctime time.Time) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, 0, 0, 0, info.ModTime()
	}
	return uint32(st.Dev), uint32(st.Ino), st.Uid, st.Gid, time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
}
