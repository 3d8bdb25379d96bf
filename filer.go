package staticcompress

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"time"

	"github.com/absfs/absfs"
)

// Filer is the part of absfs.Filer that FilerStorage uses. Any
// absfs.Filer satisfies it.
type Filer interface {
	OpenFile(name string, flag int, perm os.FileMode) (absfs.File, error)
	Mkdir(name string, perm os.FileMode) error
	Remove(name string) error
	Stat(name string) (os.FileInfo, error)
}

// FilerStorage stores published files in an absfs file system. It
// answers existence, size and modification time queries itself but has
// no local path, so access and creation times are unavailable.
type FilerStorage struct {
	fs   Filer
	perm fs.FileMode
}

// NewFilerStorage creates a storage over filer
func NewFilerStorage(filer Filer) *FilerStorage {
	return &FilerStorage{fs: filer, perm: 0644}
}

func (st *FilerStorage) Open(name string) (io.ReadSeekCloser, error) {
	return st.fs.OpenFile(name, os.O_RDONLY, 0)
}

func (st *FilerStorage) Save(name string, r io.Reader) (string, error) {
	if err := st.mkdirAll(path.Dir(name)); err != nil {
		return "", err
	}

	f, err := st.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, st.perm)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return name, nil
}

func (st *FilerStorage) Delete(name string) error {
	err := st.fs.Remove(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (st *FilerStorage) Exists(name string) (bool, error) {
	_, err := st.fs.Stat(name)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (st *FilerStorage) Size(name string) (int64, error) {
	info, err := st.fs.Stat(name)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (st *FilerStorage) ModTime(name string) (time.Time, error) {
	info, err := st.fs.Stat(name)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// mkdirAll creates dir and its parents, leaving existing ones alone
func (st *FilerStorage) mkdirAll(dir string) error {
	if dir == "." || dir == "/" || dir == "" {
		return nil
	}
	if info, err := st.fs.Stat(dir); err == nil {
		if !info.IsDir() {
			return &fs.PathError{Op: "mkdir", Path: dir, Err: fs.ErrExist}
		}
		return nil
	}
	if err := st.mkdirAll(path.Dir(dir)); err != nil {
		return err
	}
	if err := st.fs.Mkdir(dir, 0755); err != nil && !errors.Is(err, fs.ErrExist) {
		return err
	}
	return nil
}
