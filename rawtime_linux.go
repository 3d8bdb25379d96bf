package staticcompress

import (
	"io/fs"
	"time"

	"golang.org/x/sys/unix"
)

func rawStat(path string) (*unix.Stat_t, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return nil, &fs.PathError{Op: "stat", Path: path, Err: err}
	}
	return &st, nil
}

func rawAccessTime(path string) (time.Time, error) {
	st, err := rawStat(path)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(st.Atim.Unix()), nil
}

// rawCreateTime returns the inode change time; stat reports no birth
// time.
func rawCreateTime(path string) (time.Time, error) {
	st, err := rawStat(path)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(st.Ctim.Unix()), nil
}
