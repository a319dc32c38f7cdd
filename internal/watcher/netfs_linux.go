//go:build linux

package watcher

import "golang.org/x/sys/unix"

// Filesystem magic numbers for mounts where native change notifications
// are known to be unreliable.
const (
	nfsSuperMagic  = 0x6969
	smbSuperMagic  = 0x517b
	cifsSuperMagic = 0xff534d42
	smb2SuperMagic = 0xfe534d42
)

// isNetworkFS reports whether path resides on a network filesystem.
// If statfs fails we cannot tell, so the polling fallback is forced.
func isNetworkFS(path string) bool {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return true
	}
	switch uint32(st.Type) {
	case nfsSuperMagic, smbSuperMagic, cifsSuperMagic, smb2SuperMagic:
		return true
	}
	return false
}
