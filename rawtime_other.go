//go:build !linux

package staticcompress

import "time"

// Without a portable stat, access and creation times degrade to the
// modification time.

func rawAccessTime(path string) (time.Time, error) {
	return rawModTime(path)
}

func rawCreateTime(path string) (time.Time, error) {
	return rawModTime(path)
}
