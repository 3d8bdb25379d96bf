package staticcompress

import (
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// AferoStorage stores published files in an afero file system. Storages
// made by NewDirStorage are backed by a local directory and resolve
// names to paths, which lets access and creation times be read from the
// file system.
type AferoStorage struct {
	fs   afero.Fs
	root string
}

// NewAferoStorage creates a storage over fsys. It reports no local
// paths.
func NewAferoStorage(fsys afero.Fs) *AferoStorage {
	return &AferoStorage{fs: fsys}
}

// NewDirStorage creates a storage rooted at a local directory
func NewDirStorage(root string) *AferoStorage {
	return &AferoStorage{
		fs:   afero.NewBasePathFs(afero.NewOsFs(), root),
		root: root,
	}
}

// Fs returns the underlying file system, rooted at the storage root
func (st *AferoStorage) Fs() afero.Fs {
	return st.fs
}

// Root returns the local directory of the storage, if any
func (st *AferoStorage) Root() string {
	return st.root
}

func (st *AferoStorage) Open(name string) (io.ReadSeekCloser, error) {
	return st.fs.Open(name)
}

func (st *AferoStorage) Save(name string, r io.Reader) (string, error) {
	if err := afero.WriteReader(st.fs, name, r); err != nil {
		return "", err
	}
	return name, nil
}

func (st *AferoStorage) Delete(name string) error {
	err := st.fs.Remove(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (st *AferoStorage) Exists(name string) (bool, error) {
	return afero.Exists(st.fs, name)
}

func (st *AferoStorage) Size(name string) (int64, error) {
	info, err := st.fs.Stat(name)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (st *AferoStorage) ModTime(name string) (time.Time, error) {
	info, err := st.fs.Stat(name)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// Path returns the local path of name, or ErrNotSupported when the
// storage is not directory backed.
func (st *AferoStorage) Path(name string) (string, error) {
	bp, ok := st.fs.(*afero.BasePathFs)
	if st.root == "" || !ok {
		return "", ErrNotSupported
	}
	return bp.RealPath(filepath.FromSlash(name))
}

// Walk calls fn for every regular file under the storage root with its
// slash-separated name.
func (st *AferoStorage) Walk(fn func(name string, info fs.FileInfo) error) error {
	return afero.Walk(st.fs, ".", func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		return fn(filepath.ToSlash(p), info)
	})
}
