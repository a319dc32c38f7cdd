//go:build !linux

package watcher

// isNetworkFS reports whether path resides on a network filesystem.
// No detection is available on this platform; callers that know better
// can request polling explicitly.
func isNetworkFS(path string) bool {
	return false
}
